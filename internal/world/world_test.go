package world

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"x-scene/internal/scene"
)

func TestCreateBodyRejectsNilShape(t *testing.T) {
	w := NewWorld()
	_, err := w.CreateBody(nil, mgl32.Vec3{}, mgl32.QuatIdent(), scene.MotionDynamic, scene.LayerMoving)
	if err == nil {
		t.Fatal("Expected error for nil shape")
	}
}

func TestCreateConstraintRejectsUnknownHandle(t *testing.T) {
	w := NewWorld()
	err := w.CreateConstraint(&scene.DistanceConstraintData{Space: scene.SpaceWorld}, 7, 8)
	if err == nil {
		t.Fatal("Expected error for unknown body handles")
	}
}

func TestCreateSoftBodyRequiresOptimizedTopology(t *testing.T) {
	w := NewWorld()
	topology := scene.CreateSoftBodyCube(3, 0.2)

	_, err := w.CreateSoftBody(topology, mgl32.Vec3{}, mgl32.QuatIdent(), scene.LayerMoving, 0)
	if err == nil {
		t.Fatal("Expected error for unoptimized topology")
	}

	topology.Optimize()
	if _, err := w.CreateSoftBody(topology, mgl32.Vec3{}, mgl32.QuatIdent(), scene.LayerMoving, 0); err != nil {
		t.Fatalf("Unexpected error after optimize: %v", err)
	}
}

func TestInstantiateSampleScene(t *testing.T) {
	sc, err := scene.BuildSampleScene()
	if err != nil {
		t.Fatalf("Failed to build sample scene: %v", err)
	}

	w := NewWorld()
	if err := sc.Instantiate(w); err != nil {
		t.Fatalf("Failed to instantiate: %v", err)
	}

	bodies, constraints, softBodies := w.Counts()
	if bodies != 15 {
		t.Errorf("Expected 15 bodies, got %d", bodies)
	}
	if constraints != 1 {
		t.Errorf("Expected 1 constraint, got %d", constraints)
	}
	if softBodies != 3 {
		t.Errorf("Expected 3 soft bodies, got %d", softBodies)
	}

	// Хендлы выдаются в порядке создания, поэтому ограничение
	// связывает тела 3 и 4 - сферу и коробку
	c := w.GetConstraints()[0]
	if c.BodyA != 3 || c.BodyB != 4 {
		t.Errorf("Expected constraint between bodies 3 and 4, got %d and %d", c.BodyA, c.BodyB)
	}
	bodyA, _ := w.GetBody(c.BodyA)
	bodyB, _ := w.GetBody(c.BodyB)
	if bodyA.Shape.Kind != scene.ShapeSphere || bodyB.Shape.Kind != scene.ShapeBox {
		t.Errorf("Expected sphere and box, got %q and %q", bodyA.Shape.Kind, bodyB.Shape.Kind)
	}

	// Два куба мягкого тела разделяют одну подготовленную топологию
	soft := w.GetSoftBodies()
	if soft[0].Topology != soft[1].Topology {
		t.Error("Expected shared topology for the two cubes")
	}
	if !soft[0].Topology.Optimized() {
		t.Error("Expected shared topology to be optimized")
	}
}

func TestInstantiateAbortsOnReferentialError(t *testing.T) {
	sc := scene.NewScene()
	sc.AddBody(&scene.BodyDescription{
		Shape:    scene.NewSphereShape(0.5, nil),
		Rotation: mgl32.QuatIdent(),
		Motion:   scene.MotionDynamic,
		Layer:    scene.LayerMoving,
	})
	sc.AddConstraint(&scene.DistanceConstraintData{Space: scene.SpaceWorld}, 0, 9)

	w := NewWorld()
	err := sc.Instantiate(w)
	if !errors.Is(err, scene.ErrReferential) {
		t.Fatalf("Expected referential error, got %v", err)
	}

	bodies, _, _ := w.Counts()
	if bodies != 0 {
		t.Errorf("Expected untouched world, got %d bodies", bodies)
	}
}
