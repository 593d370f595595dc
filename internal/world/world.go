// Package world - мир симуляции в памяти, реализующий интерфейс
// scene.SimulationWorld. Хранит созданные тела, ограничения и мягкие
// тела под RWMutex, как менеджер объектов игрового мира.
package world

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"x-scene/internal/scene"
)

// Body - живое твердое тело
type Body struct {
	ID       scene.BodyID
	Shape    *scene.CollisionShape
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Motion   scene.MotionType
	Layer    scene.CollisionLayer
}

// Constraint - живое ограничение между двумя телами
type Constraint struct {
	Settings *scene.DistanceConstraintData
	BodyA    scene.BodyID
	BodyB    scene.BodyID
}

// SoftBody - живое мягкое тело
type SoftBody struct {
	ID       scene.SoftBodyID
	Topology *scene.SoftBodyTopology
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Layer    scene.CollisionLayer
	Pressure float32
}

// World - контейнер живых объектов симуляции
type World struct {
	mu          sync.RWMutex
	bodies      map[scene.BodyID]*Body
	order       []scene.BodyID
	constraints []*Constraint
	softBodies  []*SoftBody
	nextBody    scene.BodyID
	nextSoft    scene.SoftBodyID
	gravity     mgl32.Vec3
}

// NewWorld создает пустой мир с гравитацией по умолчанию
func NewWorld() *World {
	return &World{
		bodies:  make(map[scene.BodyID]*Body),
		gravity: mgl32.Vec3{0, -9.81, 0},
	}
}

// SetGravity устанавливает вектор гравитации мира
func (w *World) SetGravity(g mgl32.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gravity = g
}

// CreateBody создает тело с запеченной формой. Нулевая форма - отказ.
func (w *World) CreateBody(shape *scene.CollisionShape, position mgl32.Vec3, rotation mgl32.Quat, motion scene.MotionType, layer scene.CollisionLayer) (scene.BodyID, error) {
	if shape == nil {
		return 0, fmt.Errorf("create body: nil collision shape")
	}
	if motion != scene.MotionStatic && motion != scene.MotionDynamic {
		return 0, fmt.Errorf("create body: unknown motion type %q", motion)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextBody
	w.nextBody++
	w.bodies[id] = &Body{
		ID:       id,
		Shape:    shape,
		Position: position,
		Rotation: rotation,
		Motion:   motion,
		Layer:    layer,
	}
	w.order = append(w.order, id)

	log.Printf("[World] Создано тело %d формы %q в (%.2f, %.2f, %.2f)",
		id, shape.Kind, position.X(), position.Y(), position.Z())
	return id, nil
}

// CreateConstraint связывает два уже созданных тела.
// Неизвестный хендл - отказ.
func (w *World) CreateConstraint(settings *scene.DistanceConstraintData, bodyA, bodyB scene.BodyID) error {
	if settings == nil {
		return fmt.Errorf("create constraint: nil settings")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.bodies[bodyA]; !ok {
		return fmt.Errorf("create constraint: unknown body handle %d", bodyA)
	}
	if _, ok := w.bodies[bodyB]; !ok {
		return fmt.Errorf("create constraint: unknown body handle %d", bodyB)
	}

	w.constraints = append(w.constraints, &Constraint{Settings: settings, BodyA: bodyA, BodyB: bodyB})
	log.Printf("[World] Создано ограничение между телами %d и %d", bodyA, bodyB)
	return nil
}

// CreateSoftBody создает экземпляр мягкого тела. Топология должна быть
// подготовлена (Optimize) до вызова.
func (w *World) CreateSoftBody(topology *scene.SoftBodyTopology, position mgl32.Vec3, rotation mgl32.Quat, layer scene.CollisionLayer, pressure float32) (scene.SoftBodyID, error) {
	if topology == nil {
		return 0, fmt.Errorf("create soft body: nil topology")
	}
	if !topology.Optimized() {
		return 0, fmt.Errorf("create soft body: topology is not optimized")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextSoft
	w.nextSoft++
	w.softBodies = append(w.softBodies, &SoftBody{
		ID:       id,
		Topology: topology,
		Position: position,
		Rotation: rotation,
		Layer:    layer,
		Pressure: pressure,
	})

	log.Printf("[World] Создано мягкое тело %d (%d частиц, давление %.1f)",
		id, len(topology.Particles), pressure)
	return id, nil
}

// GetBody возвращает тело по хендлу
func (w *World) GetBody(id scene.BodyID) (*Body, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[id]
	return b, ok
}

// GetAllBodies возвращает тела в порядке создания
func (w *World) GetAllBodies() []*Body {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]*Body, 0, len(w.order))
	for _, id := range w.order {
		result = append(result, w.bodies[id])
	}
	return result
}

// GetConstraints возвращает ограничения в порядке создания
func (w *World) GetConstraints() []*Constraint {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*Constraint(nil), w.constraints...)
}

// GetSoftBodies возвращает мягкие тела в порядке создания
func (w *World) GetSoftBodies() []*SoftBody {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*SoftBody(nil), w.softBodies...)
}

// Counts возвращает количество тел, ограничений и мягких тел
func (w *World) Counts() (bodies, constraints, softBodies int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies), len(w.constraints), len(w.softBodies)
}
