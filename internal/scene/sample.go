package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"x-scene/internal/noise"
)

// BuildSampleScene собирает эталонную сцену, покрывающую все варианты форм,
// вложенные компаунды с общей под-формой, переиспользованную выпуклую
// оболочку, дистанционное ограничение и мягкие тела с общей топологией.
func BuildSampleScene() (*Scene, error) {
	colorIndex := 0
	nextColor := func() string {
		c := noise.DistinctColor(colorIndex)
		colorIndex++
		return c
	}
	pos := mgl32.Vec3{0, MaxFloorHeight, 0}
	nextPos := func() mgl32.Vec3 {
		pos = pos.Add(mgl32.Vec3{0, 1.0, 0})
		return pos
	}

	sc := NewScene()

	// Масштабированный пол из треугольной сетки
	meshFloor, err := BuildMeshFloor(10, 2.0, noise.Fractal)
	if err != nil {
		return nil, fmt.Errorf("build mesh floor: %w", err)
	}
	sc.AddBody(&BodyDescription{
		Shape:    NewScaledShape(meshFloor, mgl32.Vec3{2.5, 1.0, 1.5}),
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Motion:   MotionStatic,
		Layer:    LayerNonMoving,
	})

	// Пол из карты высот с дырой
	heightField, err := BuildHeightField(32, 1.0, noise.Fractal)
	if err != nil {
		return nil, fmt.Errorf("build height field: %w", err)
	}
	sc.AddBody(&BodyDescription{
		Shape:    heightField,
		Position: mgl32.Vec3{50, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Motion:   MotionStatic,
		Layer:    LayerNonMoving,
	})

	// Простые примитивы
	halfPi := float32(0.5 * math32.Pi)
	sc.AddBody(&BodyDescription{
		Shape: NewTriangleShape(
			mgl32.Vec3{-2, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{2, 0, 0},
			0.0, &Material{Name: "Triangle Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{1, 0, 0}),
		Motion:   MotionStatic,
		Layer:    LayerNonMoving,
	})
	sc.AddBody(&BodyDescription{
		Shape:    NewSphereShape(0.2, &Material{Name: "Sphere Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatIdent(),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})
	sc.AddBody(&BodyDescription{
		Shape:    NewBoxShape(mgl32.Vec3{0.2, 0.2, 0.4}, 0.01, &Material{Name: "Box Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatIdent(),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})
	sc.AddBody(&BodyDescription{
		Shape:    NewCapsuleShape(1.5, 0.2, &Material{Name: "Capsule Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{1, 0, 0}),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})
	sc.AddBody(&BodyDescription{
		Shape:    NewTaperedCapsuleShape(0.5, 0.1, 0.2, &Material{Name: "Tapered Capsule Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 0, 1}),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})
	sc.AddBody(&BodyDescription{
		Shape:    NewCylinderShape(0.5, 0.2, DefaultConvexRadius, &Material{Name: "Cylinder Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{1, 0, 0}),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})
	sc.AddBody(&BodyDescription{
		Shape:    NewTaperedCylinderShape(0.5, 0.2, 0.4, DefaultConvexRadius, &Material{Name: "Tapered Cylinder Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{1, 0, 0}),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})
	// Конус - вырожденный конусный цилиндр с нулевой вершиной
	sc.AddBody(&BodyDescription{
		Shape:    NewTaperedCylinderShape(0.5, 0.4, 0.0, 0.0, &Material{Name: "Cone Material", Color: nextColor()}),
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{1, 0, 0}),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})
	sc.AddBody(&BodyDescription{
		Shape:    NewEmptyShape(),
		Position: nextPos(),
		Rotation: mgl32.QuatIdent(),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})

	// Компаунд с дважды встроенным под-компаундом под разными поворотами -
	// проверка разделяемой под-формы
	subCompound := NewStaticCompoundShape([]CompoundChild{
		{
			Position: mgl32.Vec3{0, 0.5, 0},
			Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 0, 1}),
			Shape:    NewBoxShape(mgl32.Vec3{0.5, 0.1, 0.2}, DefaultConvexRadius, &Material{Name: "Compound Box Material", Color: nextColor()}),
		},
		{
			Position: mgl32.Vec3{0.5, 0, 0},
			Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 0, 1}),
			Shape:    NewCylinderShape(0.5, 0.2, DefaultConvexRadius, &Material{Name: "Compound Cylinder Material", Color: nextColor()}),
		},
		{
			Position: mgl32.Vec3{0, 0, 0.5},
			Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{1, 0, 0}),
			Shape:    NewTaperedCapsuleShape(0.5, 0.1, 0.2, &Material{Name: "Compound Tapered Capsule Material", Color: nextColor()}),
		},
	})
	compound := NewStaticCompoundShape([]CompoundChild{
		{
			Position: mgl32.Vec3{0, 0, 0},
			Rotation: mgl32.QuatRotate(-0.25*math32.Pi, mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(0.25*math32.Pi, mgl32.Vec3{0, 0, 1})),
			Shape:    subCompound,
		},
		{
			Position: mgl32.Vec3{0, -0.1, 0},
			Rotation: mgl32.QuatRotate(0.25*math32.Pi, mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(-0.75*math32.Pi, mgl32.Vec3{0, 0, 1})),
			Shape:    subCompound,
		},
	})
	sc.AddBody(&BodyDescription{
		Shape:    compound,
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 0, 1}),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})

	// Выпуклая оболочка - тетраэдр
	convexHull := NewConvexHullShape([]mgl32.Vec3{
		{-0.5, 0, -0.5},
		{0, 0, 0.5},
		{0.5, 0, -0.5},
		{0, -0.5, 0},
	}, DefaultConvexRadius, &Material{Name: "Convex Hull Material", Color: nextColor()})
	sc.AddBody(&BodyDescription{
		Shape:    convexHull,
		Position: nextPos(),
		Rotation: mgl32.QuatIdent(),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})

	// Та же оболочка, обернутая в поворот и сдвиг - вторая ссылка
	// на общий дескриптор
	sc.AddBody(&BodyDescription{
		Shape:    NewRotatedTranslatedShape(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.QuatRotate(0.25*math32.Pi, mgl32.Vec3{0, 0, 1}), convexHull),
		Position: nextPos(),
		Rotation: mgl32.QuatIdent(),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})

	// Изменяемый компаунд
	mutableCompound := NewMutableCompoundShape()
	mutableCompound.AddChild(mgl32.Vec3{0, 0.5, 0}, mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 0, 1}),
		NewBoxShape(mgl32.Vec3{0.5, 0.1, 0.2}, DefaultConvexRadius, &Material{Name: "MutableCompound Box Material", Color: nextColor()}))
	mutableCompound.AddChild(mgl32.Vec3{0.5, 0, 0}, mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 0, 1}),
		NewCapsuleShape(0.5, 0.1, &Material{Name: "MutableCompound Capsule Material", Color: nextColor()}))
	mutableCompound.AddChild(mgl32.Vec3{0, 0, 0.5}, mgl32.QuatRotate(halfPi, mgl32.Vec3{1, 0, 0}),
		NewTaperedCapsuleShape(0.5, 0.2, 0.1, &Material{Name: "MutableCompound Tapered Capsule Material", Color: nextColor()}))
	sc.AddBody(&BodyDescription{
		Shape:    mutableCompound,
		Position: nextPos(),
		Rotation: mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 0, 1}),
		Motion:   MotionDynamic,
		Layer:    LayerMoving,
	})

	// Дистанционное ограничение между первыми двумя динамическими телами -
	// сферой (индекс 3) и коробкой (индекс 4)
	sc.AddConstraint(&DistanceConstraintData{Space: SpaceLocalToBodyCOM}, 3, 4)

	// Два куба мягкого тела с одной общей топологией
	cubeTopology := CreateSoftBodyCube(5, 0.2)
	cubeTopology.Materials = []*Material{{Name: "Soft Body Cube Material", Color: nextColor()}}
	sc.AddSoftBody(NewSoftBodyDescription(cubeTopology, nextPos(), mgl32.QuatIdent(), LayerMoving))
	sc.AddSoftBody(NewSoftBodyDescription(cubeTopology, nextPos(), mgl32.QuatIdent(), LayerMoving))

	// Сфера мягкого тела с внутренним давлением
	sphereTopology := CreateSoftBodySphere(0.5)
	sphereTopology.Materials = []*Material{{Name: "Soft Body Sphere Material", Color: nextColor()}}
	sphere := NewSoftBodyDescription(sphereTopology, nextPos(), mgl32.QuatIdent(), LayerMoving)
	sphere.Pressure = 2000.0
	sc.AddSoftBody(sphere)

	return sc, nil
}
