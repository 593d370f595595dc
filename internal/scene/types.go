package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeType - дискриминант варианта формы
type ShapeType string

const (
	ShapeSphere            ShapeType = "sphere"
	ShapeBox               ShapeType = "box"
	ShapeCapsule           ShapeType = "capsule"
	ShapeTaperedCapsule    ShapeType = "tapered_capsule"
	ShapeCylinder          ShapeType = "cylinder"
	ShapeTaperedCylinder   ShapeType = "tapered_cylinder"
	ShapeTriangle          ShapeType = "triangle"
	ShapeEmpty             ShapeType = "empty"
	ShapeMesh              ShapeType = "mesh"
	ShapeHeightField       ShapeType = "height_field"
	ShapeConvexHull        ShapeType = "convex_hull"
	ShapeStaticCompound    ShapeType = "static_compound"
	ShapeMutableCompound   ShapeType = "mutable_compound"
	ShapeRotatedTranslated ShapeType = "rotated_translated"
	ShapeScaled            ShapeType = "scaled"
)

// DefaultConvexRadius - радиус скругления выпуклых форм по умолчанию
const DefaultConvexRadius = float32(0.05)

// NoCollision - зарезервированное значение высоты "дыра без коллизии"
const NoCollision = float32(3.402823466e+38)

// Material - именованная цветная метка для идентификации под-форм.
// На физический отклик в этом контексте не влияет.
type Material struct {
	Name  string
	Color string
}

// ShapeDescriptor описывает геометрию до запекания в коллизионную форму.
// Заполнено ровно одно поле варианта, соответствующее Type.
// Один дескриптор может переиспользоваться несколькими родителями -
// владение общее, сериализация обязана сохранять такие ссылки.
type ShapeDescriptor struct {
	Type              ShapeType
	Sphere            *SphereData
	Box               *BoxData
	Capsule           *CapsuleData
	TaperedCapsule    *TaperedCapsuleData
	Cylinder          *CylinderData
	TaperedCylinder   *TaperedCylinderData
	Triangle          *TriangleData
	Mesh              *MeshData
	HeightField       *HeightFieldData
	ConvexHull        *ConvexHullData
	Compound          *CompoundData
	RotatedTranslated *RotatedTranslatedData
	Scaled            *ScaledData
}

type SphereData struct {
	Radius   float32
	Material *Material
}

type BoxData struct {
	HalfExtent   mgl32.Vec3
	ConvexRadius float32
	Material     *Material
}

type CapsuleData struct {
	HalfHeight float32
	Radius     float32
	Material   *Material
}

type TaperedCapsuleData struct {
	HalfHeight   float32
	TopRadius    float32
	BottomRadius float32
	Material     *Material
}

type CylinderData struct {
	HalfHeight   float32
	Radius       float32
	ConvexRadius float32
	Material     *Material
}

type TaperedCylinderData struct {
	HalfHeight   float32
	TopRadius    float32
	BottomRadius float32
	ConvexRadius float32
	Material     *Material
}

type TriangleData struct {
	V1, V2, V3   mgl32.Vec3
	ConvexRadius float32
	Material     *Material
}

// MeshTriangle - треугольник сетки с индексом материала
type MeshTriangle struct {
	V1, V2, V3    mgl32.Vec3
	MaterialIndex uint32
}

type MeshData struct {
	Triangles []MeshTriangle
	Materials []*Material
}

// HeightFieldData - регулярная сетка высот n*n.
// Ячейки материалов на одну меньше по каждой оси.
type HeightFieldData struct {
	Heights         []float32
	SampleCount     int
	Offset          mgl32.Vec3
	Scale           mgl32.Vec3
	MaterialIndices []uint8
	Materials       []*Material
}

type ConvexHullData struct {
	Points       []mgl32.Vec3
	ConvexRadius float32
	Material     *Material
}

// CompoundChild - дочерняя форма с локальным смещением
type CompoundChild struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Shape    *ShapeDescriptor
}

// CompoundData - список дочерних форм. Для ShapeStaticCompound список
// фиксируется при конструировании, для ShapeMutableCompound допускается
// изменение через AddChild.
type CompoundData struct {
	Children []CompoundChild
}

type RotatedTranslatedData struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Inner    *ShapeDescriptor
}

type ScaledData struct {
	Scale mgl32.Vec3
	Inner *ShapeDescriptor
}

// MotionType - классификация движения тела
type MotionType string

const (
	MotionStatic  MotionType = "static"
	MotionDynamic MotionType = "dynamic"
)

// CollisionLayer - слой коллизий тела
type CollisionLayer string

const (
	LayerNonMoving CollisionLayer = "non_moving"
	LayerMoving    CollisionLayer = "moving"
)

// BodyDescription - описание твердого тела: форма плюс размещение в мире
type BodyDescription struct {
	Shape    *ShapeDescriptor
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Motion   MotionType
	Layer    CollisionLayer
}

// ConstraintSpace - система координат точек крепления
type ConstraintSpace string

const (
	SpaceWorld          ConstraintSpace = "world"
	SpaceLocalToBodyCOM ConstraintSpace = "local_to_body_com"
)

// DistanceConstraintData - настройки дистанционного ограничения
type DistanceConstraintData struct {
	Space       ConstraintSpace
	Point1      mgl32.Vec3
	Point2      mgl32.Vec3
	MinDistance float32
	MaxDistance float32
}

// ConstraintDescription связывает два тела по их индексам вставки в сцену
type ConstraintDescription struct {
	Settings *DistanceConstraintData
	BodyA    int
	BodyB    int
}

// SoftBodyDescription - экземпляр мягкого тела: общая топология плюс
// размещение и параметры конкретного экземпляра
type SoftBodyDescription struct {
	Topology *SoftBodyTopology
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Layer    CollisionLayer
	Pressure float32
}

// NewSphereShape создает дескриптор сферы
func NewSphereShape(radius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:   ShapeSphere,
		Sphere: &SphereData{Radius: radius, Material: material},
	}
}

// NewBoxShape создает дескриптор коробки
func NewBoxShape(halfExtent mgl32.Vec3, convexRadius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type: ShapeBox,
		Box:  &BoxData{HalfExtent: halfExtent, ConvexRadius: convexRadius, Material: material},
	}
}

// NewCapsuleShape создает дескриптор капсулы
func NewCapsuleShape(halfHeight, radius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:    ShapeCapsule,
		Capsule: &CapsuleData{HalfHeight: halfHeight, Radius: radius, Material: material},
	}
}

// NewTaperedCapsuleShape создает дескриптор конусной капсулы
func NewTaperedCapsuleShape(halfHeight, topRadius, bottomRadius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type: ShapeTaperedCapsule,
		TaperedCapsule: &TaperedCapsuleData{
			HalfHeight:   halfHeight,
			TopRadius:    topRadius,
			BottomRadius: bottomRadius,
			Material:     material,
		},
	}
}

// NewCylinderShape создает дескриптор цилиндра
func NewCylinderShape(halfHeight, radius, convexRadius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type: ShapeCylinder,
		Cylinder: &CylinderData{
			HalfHeight:   halfHeight,
			Radius:       radius,
			ConvexRadius: convexRadius,
			Material:     material,
		},
	}
}

// NewTaperedCylinderShape создает дескриптор конусного цилиндра.
// Нулевой верхний радиус дает конус.
func NewTaperedCylinderShape(halfHeight, topRadius, bottomRadius, convexRadius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type: ShapeTaperedCylinder,
		TaperedCylinder: &TaperedCylinderData{
			HalfHeight:   halfHeight,
			TopRadius:    topRadius,
			BottomRadius: bottomRadius,
			ConvexRadius: convexRadius,
			Material:     material,
		},
	}
}

// NewTriangleShape создает дескриптор одиночного треугольника
func NewTriangleShape(v1, v2, v3 mgl32.Vec3, convexRadius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:     ShapeTriangle,
		Triangle: &TriangleData{V1: v1, V2: v2, V3: v3, ConvexRadius: convexRadius, Material: material},
	}
}

// NewEmptyShape создает дескриптор пустой формы-заглушки
func NewEmptyShape() *ShapeDescriptor {
	return &ShapeDescriptor{Type: ShapeEmpty}
}

// NewConvexHullShape создает дескриптор выпуклой оболочки
func NewConvexHullShape(points []mgl32.Vec3, convexRadius float32, material *Material) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:       ShapeConvexHull,
		ConvexHull: &ConvexHullData{Points: points, ConvexRadius: convexRadius, Material: material},
	}
}

// NewStaticCompoundShape создает составную форму с фиксированным списком детей
func NewStaticCompoundShape(children []CompoundChild) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:     ShapeStaticCompound,
		Compound: &CompoundData{Children: children},
	}
}

// NewMutableCompoundShape создает составную форму с изменяемым списком детей
func NewMutableCompoundShape() *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:     ShapeMutableCompound,
		Compound: &CompoundData{},
	}
}

// AddChild добавляет дочернюю форму в изменяемый компаунд.
// Для остальных вариантов вызов игнорируется.
func (s *ShapeDescriptor) AddChild(position mgl32.Vec3, rotation mgl32.Quat, child *ShapeDescriptor) {
	if s.Type != ShapeMutableCompound || s.Compound == nil {
		return
	}
	s.Compound.Children = append(s.Compound.Children, CompoundChild{
		Position: position,
		Rotation: rotation,
		Shape:    child,
	})
}

// NewRotatedTranslatedShape оборачивает форму в локальный поворот и сдвиг
func NewRotatedTranslatedShape(position mgl32.Vec3, rotation mgl32.Quat, inner *ShapeDescriptor) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:              ShapeRotatedTranslated,
		RotatedTranslated: &RotatedTranslatedData{Position: position, Rotation: rotation, Inner: inner},
	}
}

// NewScaledShape оборачивает форму в неравномерный масштаб
func NewScaledShape(inner *ShapeDescriptor, scale mgl32.Vec3) *ShapeDescriptor {
	return &ShapeDescriptor{
		Type:   ShapeScaled,
		Scaled: &ScaledData{Scale: scale, Inner: inner},
	}
}
