package objectstream

import (
	"encoding/json"
	"fmt"
	"io"

	"x-scene/internal/scene"
)

// streamReader восстанавливает арены документа. Один id дает один
// восстановленный объект - разделение ссылок сохраняется.
type streamReader struct {
	doc        document
	materials  []*scene.Material
	shapes     []*scene.ShapeDescriptor
	topologies []*scene.SoftBodyTopology
}

// Read восстанавливает сцену из потока r. Любая ошибка означает отказ
// целиком: наполовину прочитанная сцена наружу не возвращается.
// Пустая сцена - корректный результат, не ошибка.
func Read(r io.Reader) (*scene.Scene, error) {
	sr := &streamReader{}

	dec := json.NewDecoder(r)
	if err := dec.Decode(&sr.doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSerialization, err)
	}
	if sr.doc.Format != FormatName {
		return nil, fmt.Errorf("%w: unexpected format %q", ErrSerialization, sr.doc.Format)
	}

	// Арена материалов
	sr.materials = make([]*scene.Material, len(sr.doc.Materials))
	for i, rec := range sr.doc.Materials {
		sr.materials[i] = &scene.Material{Name: rec.Name, Color: rec.Color}
	}

	// Арена форм в две фазы: сначала указатели, затем наполнение.
	// Дети ссылаются по id, поэтому общие под-формы восстанавливаются
	// в один объект без дублирования.
	sr.shapes = make([]*scene.ShapeDescriptor, len(sr.doc.Shapes))
	for i := range sr.doc.Shapes {
		sr.shapes[i] = &scene.ShapeDescriptor{}
	}
	for i, rec := range sr.doc.Shapes {
		if err := sr.fillShape(sr.shapes[i], rec); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}

	// Арена топологий
	sr.topologies = make([]*scene.SoftBodyTopology, len(sr.doc.Topologies))
	for i, rec := range sr.doc.Topologies {
		t, err := sr.buildTopology(rec)
		if err != nil {
			return nil, fmt.Errorf("topology %d: %w", i, err)
		}
		sr.topologies[i] = t
	}

	sc := scene.NewScene()

	for i, rec := range sr.doc.Bodies {
		shape, err := sr.shapeByID(rec.Shape)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		motion := scene.MotionType(rec.Motion)
		if motion != scene.MotionStatic && motion != scene.MotionDynamic {
			return nil, fmt.Errorf("%w: body %d has unknown motion type %q", ErrSerialization, i, rec.Motion)
		}
		layer, err := decodeLayer(rec.Layer)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		sc.AddBody(&scene.BodyDescription{
			Shape:    shape,
			Position: decodeVec3(rec.Position),
			Rotation: decodeQuat(rec.Rotation),
			Motion:   motion,
			Layer:    layer,
		})
	}

	for i, rec := range sr.doc.Constraints {
		space := scene.ConstraintSpace(rec.Settings.Space)
		if space != scene.SpaceWorld && space != scene.SpaceLocalToBodyCOM {
			return nil, fmt.Errorf("%w: constraint %d has unknown space %q", ErrSerialization, i, rec.Settings.Space)
		}
		sc.AddConstraint(&scene.DistanceConstraintData{
			Space:       space,
			Point1:      decodeVec3(rec.Settings.Point1),
			Point2:      decodeVec3(rec.Settings.Point2),
			MinDistance: rec.Settings.MinDistance,
			MaxDistance: rec.Settings.MaxDistance,
		}, rec.BodyA, rec.BodyB)
	}

	for i, rec := range sr.doc.SoftBodies {
		if rec.Topology < 0 || rec.Topology >= len(sr.topologies) {
			return nil, fmt.Errorf("%w: soft body %d references topology %d of %d",
				ErrSerialization, i, rec.Topology, len(sr.topologies))
		}
		layer, err := decodeLayer(rec.Layer)
		if err != nil {
			return nil, fmt.Errorf("soft body %d: %w", i, err)
		}
		sc.AddSoftBody(&scene.SoftBodyDescription{
			Topology: sr.topologies[rec.Topology],
			Position: decodeVec3(rec.Position),
			Rotation: decodeQuat(rec.Rotation),
			Layer:    layer,
			Pressure: rec.Pressure,
		})
	}

	return sc, nil
}

func decodeLayer(s string) (scene.CollisionLayer, error) {
	layer := scene.CollisionLayer(s)
	if layer != scene.LayerNonMoving && layer != scene.LayerMoving {
		return "", fmt.Errorf("%w: unknown collision layer %q", ErrSerialization, s)
	}
	return layer, nil
}

func (sr *streamReader) shapeByID(id int) (*scene.ShapeDescriptor, error) {
	if id < 0 || id >= len(sr.shapes) {
		return nil, fmt.Errorf("%w: shape reference %d out of range (%d shapes)", ErrSerialization, id, len(sr.shapes))
	}
	return sr.shapes[id], nil
}

// materialByID возвращает материал по ссылке. Отсутствующая ссылка
// и явный отрицательный id дают nil.
func (sr *streamReader) materialByID(id *int) (*scene.Material, error) {
	if id == nil || *id < 0 {
		return nil, nil
	}
	if *id >= len(sr.materials) {
		return nil, fmt.Errorf("%w: material reference %d out of range (%d materials)", ErrSerialization, *id, len(sr.materials))
	}
	return sr.materials[*id], nil
}

func (sr *streamReader) materialList(ids []int) ([]*scene.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	materials := make([]*scene.Material, 0, len(ids))
	for _, id := range ids {
		localID := id
		m, err := sr.materialByID(&localID)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, nil
}

// fillShape наполняет заранее созданный дескриптор по записи варианта.
// Неизвестная метка типа - ошибка сериализации, не молчаливый пропуск.
func (sr *streamReader) fillShape(desc *scene.ShapeDescriptor, rec *shapeRecord) error {
	desc.Type = scene.ShapeType(rec.Type)

	switch desc.Type {
	case scene.ShapeSphere:
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		desc.Sphere = &scene.SphereData{Radius: rec.Radius, Material: m}

	case scene.ShapeBox:
		if rec.HalfExtent == nil {
			return fmt.Errorf("%w: box record without half_extent", ErrSerialization)
		}
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		desc.Box = &scene.BoxData{
			HalfExtent:   decodeVec3(*rec.HalfExtent),
			ConvexRadius: rec.ConvexRadius,
			Material:     m,
		}

	case scene.ShapeCapsule:
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		desc.Capsule = &scene.CapsuleData{
			HalfHeight: rec.HalfHeight,
			Radius:     rec.Radius,
			Material:   m,
		}

	case scene.ShapeTaperedCapsule:
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		desc.TaperedCapsule = &scene.TaperedCapsuleData{
			HalfHeight:   rec.HalfHeight,
			TopRadius:    rec.TopRadius,
			BottomRadius: rec.BottomRadius,
			Material:     m,
		}

	case scene.ShapeCylinder:
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		desc.Cylinder = &scene.CylinderData{
			HalfHeight:   rec.HalfHeight,
			Radius:       rec.Radius,
			ConvexRadius: rec.ConvexRadius,
			Material:     m,
		}

	case scene.ShapeTaperedCylinder:
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		desc.TaperedCylinder = &scene.TaperedCylinderData{
			HalfHeight:   rec.HalfHeight,
			TopRadius:    rec.TopRadius,
			BottomRadius: rec.BottomRadius,
			ConvexRadius: rec.ConvexRadius,
			Material:     m,
		}

	case scene.ShapeTriangle:
		if rec.V1 == nil || rec.V2 == nil || rec.V3 == nil {
			return fmt.Errorf("%w: triangle record without vertices", ErrSerialization)
		}
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		desc.Triangle = &scene.TriangleData{
			V1:           decodeVec3(*rec.V1),
			V2:           decodeVec3(*rec.V2),
			V3:           decodeVec3(*rec.V3),
			ConvexRadius: rec.ConvexRadius,
			Material:     m,
		}

	case scene.ShapeEmpty:
		// Данных нет

	case scene.ShapeMesh:
		materials, err := sr.materialList(rec.Materials)
		if err != nil {
			return err
		}
		mesh := &scene.MeshData{Materials: materials}
		for _, t := range rec.Triangles {
			mesh.Triangles = append(mesh.Triangles, scene.MeshTriangle{
				V1:            decodeVec3(t.V1),
				V2:            decodeVec3(t.V2),
				V3:            decodeVec3(t.V3),
				MaterialIndex: t.MaterialIndex,
			})
		}
		desc.Mesh = mesh

	case scene.ShapeHeightField:
		if rec.Offset == nil || rec.Scale == nil {
			return fmt.Errorf("%w: height field record without offset/scale", ErrSerialization)
		}
		if rec.SampleCount <= 0 || len(rec.Heights) != rec.SampleCount*rec.SampleCount {
			return fmt.Errorf("%w: height field has %d samples for grid %d",
				ErrSerialization, len(rec.Heights), rec.SampleCount)
		}
		materials, err := sr.materialList(rec.Materials)
		if err != nil {
			return err
		}
		desc.HeightField = &scene.HeightFieldData{
			Heights:         rec.Heights,
			SampleCount:     rec.SampleCount,
			Offset:          decodeVec3(*rec.Offset),
			Scale:           decodeVec3(*rec.Scale),
			MaterialIndices: rec.MaterialIndices,
			Materials:       materials,
		}

	case scene.ShapeConvexHull:
		m, err := sr.materialByID(rec.Material)
		if err != nil {
			return err
		}
		hull := &scene.ConvexHullData{ConvexRadius: rec.ConvexRadius, Material: m}
		for _, p := range rec.Points {
			hull.Points = append(hull.Points, decodeVec3(p))
		}
		desc.ConvexHull = hull

	case scene.ShapeStaticCompound, scene.ShapeMutableCompound:
		compound := &scene.CompoundData{}
		for _, child := range rec.Children {
			childShape, err := sr.shapeByID(child.Shape)
			if err != nil {
				return err
			}
			compound.Children = append(compound.Children, scene.CompoundChild{
				Position: decodeVec3(child.Position),
				Rotation: decodeQuat(child.Rotation),
				Shape:    childShape,
			})
		}
		desc.Compound = compound

	case scene.ShapeRotatedTranslated:
		if rec.Inner == nil || rec.Position == nil || rec.Rotation == nil {
			return fmt.Errorf("%w: rotated translated record is incomplete", ErrSerialization)
		}
		inner, err := sr.shapeByID(*rec.Inner)
		if err != nil {
			return err
		}
		desc.RotatedTranslated = &scene.RotatedTranslatedData{
			Position: decodeVec3(*rec.Position),
			Rotation: decodeQuat(*rec.Rotation),
			Inner:    inner,
		}

	case scene.ShapeScaled:
		if rec.Inner == nil || rec.Scale == nil {
			return fmt.Errorf("%w: scaled record is incomplete", ErrSerialization)
		}
		inner, err := sr.shapeByID(*rec.Inner)
		if err != nil {
			return err
		}
		desc.Scaled = &scene.ScaledData{
			Scale: decodeVec3(*rec.Scale),
			Inner: inner,
		}

	default:
		return fmt.Errorf("%w: unknown shape type %q", ErrSerialization, rec.Type)
	}

	return nil
}

// buildTopology восстанавливает общую топологию мягкого тела.
// Производный индекс групп не переносится - он перестраивается
// первым Optimize после чтения.
func (sr *streamReader) buildTopology(rec *topologyRecord) (*scene.SoftBodyTopology, error) {
	t := &scene.SoftBodyTopology{}
	for _, p := range rec.Particles {
		t.Particles = append(t.Particles, scene.SoftBodyParticle{
			Position: decodeVec3(p.Position),
			InvMass:  p.InvMass,
		})
	}
	for i, e := range rec.Edges {
		if e.Particle1 < 0 || e.Particle1 >= len(t.Particles) || e.Particle2 < 0 || e.Particle2 >= len(t.Particles) {
			return nil, fmt.Errorf("%w: edge %d references particles (%d, %d) of %d",
				ErrSerialization, i, e.Particle1, e.Particle2, len(t.Particles))
		}
		t.Edges = append(t.Edges, scene.SoftBodyEdge{
			Particle1:  e.Particle1,
			Particle2:  e.Particle2,
			RestLength: e.RestLength,
			Compliance: e.Compliance,
		})
	}
	for i, v := range rec.Volumes {
		for _, p := range v.Particles {
			if p < 0 || p >= len(t.Particles) {
				return nil, fmt.Errorf("%w: volume %d references particle %d of %d",
					ErrSerialization, i, p, len(t.Particles))
			}
		}
		t.Volumes = append(t.Volumes, scene.SoftBodyVolume{
			Particles:  v.Particles,
			RestVolume: v.RestVolume,
			Compliance: v.Compliance,
		})
	}
	materials, err := sr.materialList(rec.Materials)
	if err != nil {
		return nil, err
	}
	t.Materials = materials
	return t, nil
}
