package scene

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

// BodyID - хендл тела, выданный миром симуляции
type BodyID int

// SoftBodyID - хендл мягкого тела, выданный миром симуляции
type SoftBodyID int

// SimulationWorld - внешний мир симуляции, в который инстанцируется сцена.
// Любой отказ (некорректная форма, неизвестный хендл) фатален для сцены.
type SimulationWorld interface {
	CreateBody(shape *CollisionShape, position mgl32.Vec3, rotation mgl32.Quat, motion MotionType, layer CollisionLayer) (BodyID, error)
	CreateConstraint(settings *DistanceConstraintData, bodyA, bodyB BodyID) error
	CreateSoftBody(topology *SoftBodyTopology, position mgl32.Vec3, rotation mgl32.Quat, layer CollisionLayer, pressure float32) (SoftBodyID, error)
}

// CollisionShape - конкретная коллизионная форма, запеченная из дескриптора.
// Разделяемый дескриптор запекается ровно в один CollisionShape,
// переиспользуемый всеми родителями.
type CollisionShape struct {
	Kind     ShapeType
	Source   *ShapeDescriptor
	Children []BakedChild

	// Tag - последовательный идентификатор, присвоенный при запекании.
	// Совпадающие теги у двух ссылок означают один общий объект.
	Tag uint64
}

// BakedChild - запеченная дочерняя форма с локальным смещением
type BakedChild struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Shape    *CollisionShape
}

// shapeBaker запекает граф дескрипторов, сохраняя разделение
// через кеш по идентичности указателя
type shapeBaker struct {
	cache   map[*ShapeDescriptor]*CollisionShape
	nextTag uint64
}

func newShapeBaker() *shapeBaker {
	return &shapeBaker{cache: make(map[*ShapeDescriptor]*CollisionShape)}
}

func (b *shapeBaker) bake(desc *ShapeDescriptor) (*CollisionShape, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: nil shape descriptor", ErrInstantiation)
	}
	if baked, ok := b.cache[desc]; ok {
		return baked, nil
	}

	baked := &CollisionShape{Kind: desc.Type, Source: desc, Tag: b.nextTag}
	b.nextTag++
	// Кеш заполняется до обхода детей - самоссылки не зацикливаются
	b.cache[desc] = baked

	switch desc.Type {
	case ShapeSphere:
		if desc.Sphere == nil {
			return nil, fmt.Errorf("%w: sphere descriptor without data", ErrInstantiation)
		}
	case ShapeBox:
		if desc.Box == nil {
			return nil, fmt.Errorf("%w: box descriptor without data", ErrInstantiation)
		}
	case ShapeCapsule:
		if desc.Capsule == nil {
			return nil, fmt.Errorf("%w: capsule descriptor without data", ErrInstantiation)
		}
	case ShapeTaperedCapsule:
		if desc.TaperedCapsule == nil {
			return nil, fmt.Errorf("%w: tapered capsule descriptor without data", ErrInstantiation)
		}
	case ShapeCylinder:
		if desc.Cylinder == nil {
			return nil, fmt.Errorf("%w: cylinder descriptor without data", ErrInstantiation)
		}
	case ShapeTaperedCylinder:
		if desc.TaperedCylinder == nil {
			return nil, fmt.Errorf("%w: tapered cylinder descriptor without data", ErrInstantiation)
		}
	case ShapeTriangle:
		if desc.Triangle == nil {
			return nil, fmt.Errorf("%w: triangle descriptor without data", ErrInstantiation)
		}
	case ShapeEmpty:
		// Данных нет
	case ShapeMesh:
		if desc.Mesh == nil {
			return nil, fmt.Errorf("%w: mesh descriptor without data", ErrInstantiation)
		}
	case ShapeHeightField:
		if desc.HeightField == nil {
			return nil, fmt.Errorf("%w: height field descriptor without data", ErrInstantiation)
		}
	case ShapeConvexHull:
		if desc.ConvexHull == nil {
			return nil, fmt.Errorf("%w: convex hull descriptor without data", ErrInstantiation)
		}
	case ShapeStaticCompound, ShapeMutableCompound:
		if desc.Compound == nil {
			return nil, fmt.Errorf("%w: compound descriptor without data", ErrInstantiation)
		}
		for _, child := range desc.Compound.Children {
			bakedChild, err := b.bake(child.Shape)
			if err != nil {
				return nil, err
			}
			baked.Children = append(baked.Children, BakedChild{
				Position: child.Position,
				Rotation: child.Rotation,
				Shape:    bakedChild,
			})
		}
	case ShapeRotatedTranslated:
		if desc.RotatedTranslated == nil {
			return nil, fmt.Errorf("%w: rotated translated descriptor without data", ErrInstantiation)
		}
		inner, err := b.bake(desc.RotatedTranslated.Inner)
		if err != nil {
			return nil, err
		}
		baked.Children = append(baked.Children, BakedChild{
			Position: desc.RotatedTranslated.Position,
			Rotation: desc.RotatedTranslated.Rotation,
			Shape:    inner,
		})
	case ShapeScaled:
		if desc.Scaled == nil {
			return nil, fmt.Errorf("%w: scaled descriptor without data", ErrInstantiation)
		}
		inner, err := b.bake(desc.Scaled.Inner)
		if err != nil {
			return nil, err
		}
		baked.Children = append(baked.Children, BakedChild{
			Rotation: mgl32.QuatIdent(),
			Shape:    inner,
		})
	default:
		return nil, fmt.Errorf("%w: unknown shape type %q", ErrInstantiation, desc.Type)
	}

	return baked, nil
}

// Instantiate материализует описания сцены в живые объекты мира w.
// Общие дескрипторы форм запекаются по одному разу, топологии мягких
// тел оптимизируются по одному разу на различимый объект.
func (s *Scene) Instantiate(w SimulationWorld) error {
	// Ссылочная целостность ограничений проверяется до создания тел,
	// чтобы не оставлять мир наполовину построенным
	for i, c := range s.Constraints {
		if c.BodyA < 0 || c.BodyA >= len(s.Bodies) || c.BodyB < 0 || c.BodyB >= len(s.Bodies) {
			return fmt.Errorf("%w: constraint %d references bodies (%d, %d), scene has %d bodies",
				ErrReferential, i, c.BodyA, c.BodyB, len(s.Bodies))
		}
	}

	// Тела в порядке добавления
	baker := newShapeBaker()
	bodyIDs := make([]BodyID, 0, len(s.Bodies))
	for i, body := range s.Bodies {
		shape, err := baker.bake(body.Shape)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		id, err := w.CreateBody(shape, body.Position, body.Rotation, body.Motion, body.Layer)
		if err != nil {
			return fmt.Errorf("%w: body %d rejected: %v", ErrInstantiation, i, err)
		}
		bodyIDs = append(bodyIDs, id)
	}

	// Ограничения между уже созданными телами
	for i, c := range s.Constraints {
		if err := w.CreateConstraint(c.Settings, bodyIDs[c.BodyA], bodyIDs[c.BodyB]); err != nil {
			return fmt.Errorf("%w: constraint %d rejected: %v", ErrInstantiation, i, err)
		}
	}

	// Мягкие тела. Optimize идемпотентен, поэтому общая топология
	// подготавливается один раз независимо от числа экземпляров.
	for i, sb := range s.SoftBodies {
		if sb.Topology == nil {
			return fmt.Errorf("%w: soft body %d without topology", ErrInstantiation, i)
		}
		if sb.Topology.Optimize() {
			log.Printf("[Scene] Оптимизирована топология мягкого тела (%d частиц, %d ребер)",
				len(sb.Topology.Particles), len(sb.Topology.Edges))
		}
		if _, err := w.CreateSoftBody(sb.Topology, sb.Position, sb.Rotation, sb.Layer, sb.Pressure); err != nil {
			return fmt.Errorf("%w: soft body %d rejected: %v", ErrInstantiation, i, err)
		}
	}

	return nil
}
