package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SoftBodyParticle - частица мягкого тела
type SoftBodyParticle struct {
	Position mgl32.Vec3
	InvMass  float32
}

// SoftBodyEdge - дистанционное ограничение между двумя частицами
type SoftBodyEdge struct {
	Particle1  int
	Particle2  int
	RestLength float32
	Compliance float32
}

// SoftBodyVolume - объемное ограничение на тетраэдре частиц
type SoftBodyVolume struct {
	Particles  [4]int
	RestVolume float32
	Compliance float32
}

// SoftBodyTopology - переиспользуемое структурное определение мягкого тела,
// независимое от размещения и параметров конкретного экземпляра.
// Несколько SoftBodyDescription могут ссылаться на одну топологию -
// сериализация обязана сохранять это разделение.
type SoftBodyTopology struct {
	Particles []SoftBodyParticle
	Edges     []SoftBodyEdge
	Volumes   []SoftBodyVolume
	Materials []*Material

	// Производный индекс групп ребер. Не сериализуется,
	// перестраивается на первом Optimize после чтения.
	edgeGroups [][]int
}

// Optimize один раз строит производный индекс групп ребер.
// Возвращает true если работа была выполнена, false если индекс уже построен.
// Повторные вызовы безопасны.
func (t *SoftBodyTopology) Optimize() bool {
	if t.edgeGroups != nil {
		return false
	}

	// Жадно раскладываем ребра по группам так, чтобы внутри группы
	// ни одна частица не встречалась дважды - группы можно решать независимо
	var groups [][]int
	var used []map[int]bool
	for i, e := range t.Edges {
		placed := false
		for g := range groups {
			if !used[g][e.Particle1] && !used[g][e.Particle2] {
				groups[g] = append(groups[g], i)
				used[g][e.Particle1] = true
				used[g][e.Particle2] = true
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []int{i})
			used = append(used, map[int]bool{e.Particle1: true, e.Particle2: true})
		}
	}
	if groups == nil {
		groups = [][]int{}
	}
	t.edgeGroups = groups
	return true
}

// Optimized сообщает, построен ли производный индекс
func (t *SoftBodyTopology) Optimized() bool {
	return t.edgeGroups != nil
}

// EdgeGroups возвращает построенный индекс групп (nil до Optimize)
func (t *SoftBodyTopology) EdgeGroups() [][]int {
	return t.edgeGroups
}

// CreateSoftBodyCube строит кубическую решетку частиц gridSize^3
// с шагом spacing, связанную ребрами по осям и диагоналям граней
func CreateSoftBodyCube(gridSize int, spacing float32) *SoftBodyTopology {
	t := &SoftBodyTopology{}

	// Частицы в узлах решетки, центрированной вокруг нуля
	center := float32(gridSize-1) * spacing / 2
	index := func(x, y, z int) int {
		return (z*gridSize+y)*gridSize + x
	}
	for z := 0; z < gridSize; z++ {
		for y := 0; y < gridSize; y++ {
			for x := 0; x < gridSize; x++ {
				t.Particles = append(t.Particles, SoftBodyParticle{
					Position: mgl32.Vec3{
						float32(x)*spacing - center,
						float32(y)*spacing - center,
						float32(z)*spacing - center,
					},
					InvMass: 1.0,
				})
			}
		}
	}

	addEdge := func(a, b int) {
		pa := t.Particles[a].Position
		pb := t.Particles[b].Position
		t.Edges = append(t.Edges, SoftBodyEdge{
			Particle1:  a,
			Particle2:  b,
			RestLength: pa.Sub(pb).Len(),
			Compliance: 1.0e-4,
		})
	}

	// Ребра вдоль осей
	for z := 0; z < gridSize; z++ {
		for y := 0; y < gridSize; y++ {
			for x := 0; x < gridSize; x++ {
				if x+1 < gridSize {
					addEdge(index(x, y, z), index(x+1, y, z))
				}
				if y+1 < gridSize {
					addEdge(index(x, y, z), index(x, y+1, z))
				}
				if z+1 < gridSize {
					addEdge(index(x, y, z), index(x, y, z+1))
				}
				// Диагонали граней для сопротивления сдвигу
				if x+1 < gridSize && y+1 < gridSize {
					addEdge(index(x, y, z), index(x+1, y+1, z))
					addEdge(index(x+1, y, z), index(x, y+1, z))
				}
			}
		}
	}

	return t
}

// CreateSoftBodySphere строит сферу частиц по широтно-долготной сетке,
// пригодную для накачки внутренним давлением
func CreateSoftBodySphere(radius float32) *SoftBodyTopology {
	const numTheta = 8
	const numPhi = 16

	t := &SoftBodyTopology{}

	// Полюса плюс кольца широт
	t.Particles = append(t.Particles, SoftBodyParticle{Position: mgl32.Vec3{0, radius, 0}, InvMass: 1.0})
	for it := 1; it < numTheta; it++ {
		theta := math32.Pi * float32(it) / float32(numTheta)
		for ip := 0; ip < numPhi; ip++ {
			phi := 2 * math32.Pi * float32(ip) / float32(numPhi)
			t.Particles = append(t.Particles, SoftBodyParticle{
				Position: mgl32.Vec3{
					radius * math32.Sin(theta) * math32.Cos(phi),
					radius * math32.Cos(theta),
					radius * math32.Sin(theta) * math32.Sin(phi),
				},
				InvMass: 1.0,
			})
		}
	}
	t.Particles = append(t.Particles, SoftBodyParticle{Position: mgl32.Vec3{0, -radius, 0}, InvMass: 1.0})

	ringStart := func(it int) int { return 1 + (it-1)*numPhi }
	last := len(t.Particles) - 1

	addEdge := func(a, b int) {
		pa := t.Particles[a].Position
		pb := t.Particles[b].Position
		t.Edges = append(t.Edges, SoftBodyEdge{
			Particle1:  a,
			Particle2:  b,
			RestLength: pa.Sub(pb).Len(),
			Compliance: 1.0e-4,
		})
	}

	for it := 1; it < numTheta; it++ {
		for ip := 0; ip < numPhi; ip++ {
			cur := ringStart(it) + ip
			next := ringStart(it) + (ip+1)%numPhi

			// Ребро вдоль кольца
			addEdge(cur, next)

			// Связь с предыдущим кольцом либо полюсом
			if it == 1 {
				addEdge(0, cur)
			} else {
				addEdge(ringStart(it-1)+ip, cur)
			}
			if it == numTheta-1 {
				addEdge(cur, last)
			}
		}
	}

	return t
}

// NewSoftBodyDescription создает описание экземпляра мягкого тела
// с общей топологией
func NewSoftBodyDescription(topology *SoftBodyTopology, position mgl32.Vec3, rotation mgl32.Quat, layer CollisionLayer) *SoftBodyDescription {
	return &SoftBodyDescription{
		Topology: topology,
		Position: position,
		Rotation: rotation,
		Layer:    layer,
		Pressure: 0,
	}
}
