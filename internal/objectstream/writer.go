// Package objectstream реализует текстовый объектный поток сцены:
// запись и чтение полного графа объектов с сохранением полиморфных
// типов, разделяемых ссылок и порядка последовательностей.
package objectstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"x-scene/internal/scene"
)

// ErrSerialization - отказ записи или чтения потока. Частичные
// результаты наружу не отдаются.
var ErrSerialization = errors.New("objectstream: serialization error")

// streamWriter накапливает арены документа. Каждый различимый объект
// (по идентичности указателя) записывается ровно один раз.
type streamWriter struct {
	doc         document
	shapeIDs    map[*scene.ShapeDescriptor]int
	materialIDs map[*scene.Material]int
	topologyIDs map[*scene.SoftBodyTopology]int
}

// Write сериализует сцену в w как JSON-документ. Операция атомарна
// с точки зрения вызывающего: при ошибке поток считается негодным.
func Write(w io.Writer, sc *scene.Scene) error {
	if sc == nil {
		return fmt.Errorf("%w: nil scene", ErrSerialization)
	}

	sw := &streamWriter{
		doc: document{
			Format:      FormatName,
			Shapes:      []*shapeRecord{},
			Materials:   []materialRecord{},
			Topologies:  []*topologyRecord{},
			Bodies:      []bodyRecord{},
			Constraints: []constraintRecord{},
			SoftBodies:  []softBodyRecord{},
		},
		shapeIDs:    make(map[*scene.ShapeDescriptor]int),
		materialIDs: make(map[*scene.Material]int),
		topologyIDs: make(map[*scene.SoftBodyTopology]int),
	}

	for i, body := range sc.Bodies {
		shapeID, err := sw.shapeID(body.Shape)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		sw.doc.Bodies = append(sw.doc.Bodies, bodyRecord{
			Shape:    shapeID,
			Position: encodeVec3(body.Position),
			Rotation: encodeQuat(body.Rotation),
			Motion:   string(body.Motion),
			Layer:    string(body.Layer),
		})
	}

	for i, c := range sc.Constraints {
		if c.Settings == nil {
			return fmt.Errorf("%w: constraint %d without settings", ErrSerialization, i)
		}
		sw.doc.Constraints = append(sw.doc.Constraints, constraintRecord{
			Settings: constraintSettingsRecord{
				Space:       string(c.Settings.Space),
				Point1:      encodeVec3(c.Settings.Point1),
				Point2:      encodeVec3(c.Settings.Point2),
				MinDistance: c.Settings.MinDistance,
				MaxDistance: c.Settings.MaxDistance,
			},
			BodyA: c.BodyA,
			BodyB: c.BodyB,
		})
	}

	for i, sb := range sc.SoftBodies {
		topologyID, err := sw.topologyID(sb.Topology)
		if err != nil {
			return fmt.Errorf("soft body %d: %w", i, err)
		}
		sw.doc.SoftBodies = append(sw.doc.SoftBodies, softBodyRecord{
			Topology: topologyID,
			Position: encodeVec3(sb.Position),
			Rotation: encodeQuat(sb.Rotation),
			Layer:    string(sb.Layer),
			Pressure: sb.Pressure,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&sw.doc); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrSerialization, err)
	}
	return nil
}

// materialID выдает id материала в арене, регистрируя его при первом
// вхождении. nil материал кодируется отсутствием ссылки.
func (sw *streamWriter) materialID(m *scene.Material) *int {
	if m == nil {
		return nil
	}
	if id, ok := sw.materialIDs[m]; ok {
		return &id
	}
	id := len(sw.doc.Materials)
	sw.materialIDs[m] = id
	sw.doc.Materials = append(sw.doc.Materials, materialRecord{Name: m.Name, Color: m.Color})
	return &id
}

func (sw *streamWriter) materialList(materials []*scene.Material) []int {
	ids := make([]int, 0, len(materials))
	for _, m := range materials {
		id := sw.materialID(m)
		if id == nil {
			// Дырок в списках материалов не бывает, но nil лучше
			// закодировать явно недействительным id, чем уронить запись
			ids = append(ids, -1)
			continue
		}
		ids = append(ids, *id)
	}
	return ids
}

// shapeID выдает id формы в арене. Первое вхождение записывает полную
// запись варианта, повторные ссылки переиспользуют id.
func (sw *streamWriter) shapeID(desc *scene.ShapeDescriptor) (int, error) {
	if desc == nil {
		return 0, fmt.Errorf("%w: nil shape descriptor", ErrSerialization)
	}
	if id, ok := sw.shapeIDs[desc]; ok {
		return id, nil
	}

	// id присваивается до обхода детей, поэтому самоссылки не зацикливаются
	id := len(sw.doc.Shapes)
	sw.shapeIDs[desc] = id
	rec := &shapeRecord{Type: string(desc.Type)}
	sw.doc.Shapes = append(sw.doc.Shapes, rec)

	switch desc.Type {
	case scene.ShapeSphere:
		if desc.Sphere == nil {
			return 0, fmt.Errorf("%w: sphere without data", ErrSerialization)
		}
		rec.Radius = desc.Sphere.Radius
		rec.Material = sw.materialID(desc.Sphere.Material)

	case scene.ShapeBox:
		if desc.Box == nil {
			return 0, fmt.Errorf("%w: box without data", ErrSerialization)
		}
		he := encodeVec3(desc.Box.HalfExtent)
		rec.HalfExtent = &he
		rec.ConvexRadius = desc.Box.ConvexRadius
		rec.Material = sw.materialID(desc.Box.Material)

	case scene.ShapeCapsule:
		if desc.Capsule == nil {
			return 0, fmt.Errorf("%w: capsule without data", ErrSerialization)
		}
		rec.HalfHeight = desc.Capsule.HalfHeight
		rec.Radius = desc.Capsule.Radius
		rec.Material = sw.materialID(desc.Capsule.Material)

	case scene.ShapeTaperedCapsule:
		if desc.TaperedCapsule == nil {
			return 0, fmt.Errorf("%w: tapered capsule without data", ErrSerialization)
		}
		rec.HalfHeight = desc.TaperedCapsule.HalfHeight
		rec.TopRadius = desc.TaperedCapsule.TopRadius
		rec.BottomRadius = desc.TaperedCapsule.BottomRadius
		rec.Material = sw.materialID(desc.TaperedCapsule.Material)

	case scene.ShapeCylinder:
		if desc.Cylinder == nil {
			return 0, fmt.Errorf("%w: cylinder without data", ErrSerialization)
		}
		rec.HalfHeight = desc.Cylinder.HalfHeight
		rec.Radius = desc.Cylinder.Radius
		rec.ConvexRadius = desc.Cylinder.ConvexRadius
		rec.Material = sw.materialID(desc.Cylinder.Material)

	case scene.ShapeTaperedCylinder:
		if desc.TaperedCylinder == nil {
			return 0, fmt.Errorf("%w: tapered cylinder without data", ErrSerialization)
		}
		rec.HalfHeight = desc.TaperedCylinder.HalfHeight
		rec.TopRadius = desc.TaperedCylinder.TopRadius
		rec.BottomRadius = desc.TaperedCylinder.BottomRadius
		rec.ConvexRadius = desc.TaperedCylinder.ConvexRadius
		rec.Material = sw.materialID(desc.TaperedCylinder.Material)

	case scene.ShapeTriangle:
		if desc.Triangle == nil {
			return 0, fmt.Errorf("%w: triangle without data", ErrSerialization)
		}
		v1 := encodeVec3(desc.Triangle.V1)
		v2 := encodeVec3(desc.Triangle.V2)
		v3 := encodeVec3(desc.Triangle.V3)
		rec.V1, rec.V2, rec.V3 = &v1, &v2, &v3
		rec.ConvexRadius = desc.Triangle.ConvexRadius
		rec.Material = sw.materialID(desc.Triangle.Material)

	case scene.ShapeEmpty:
		// Только метка типа

	case scene.ShapeMesh:
		if desc.Mesh == nil {
			return 0, fmt.Errorf("%w: mesh without data", ErrSerialization)
		}
		for _, t := range desc.Mesh.Triangles {
			rec.Triangles = append(rec.Triangles, triangleRecord{
				V1:            encodeVec3(t.V1),
				V2:            encodeVec3(t.V2),
				V3:            encodeVec3(t.V3),
				MaterialIndex: t.MaterialIndex,
			})
		}
		rec.Materials = sw.materialList(desc.Mesh.Materials)

	case scene.ShapeHeightField:
		if desc.HeightField == nil {
			return 0, fmt.Errorf("%w: height field without data", ErrSerialization)
		}
		hf := desc.HeightField
		rec.Heights = hf.Heights
		rec.SampleCount = hf.SampleCount
		offset := encodeVec3(hf.Offset)
		scale := encodeVec3(hf.Scale)
		rec.Offset = &offset
		rec.Scale = &scale
		rec.MaterialIndices = hf.MaterialIndices
		rec.Materials = sw.materialList(hf.Materials)

	case scene.ShapeConvexHull:
		if desc.ConvexHull == nil {
			return 0, fmt.Errorf("%w: convex hull without data", ErrSerialization)
		}
		for _, p := range desc.ConvexHull.Points {
			rec.Points = append(rec.Points, encodeVec3(p))
		}
		rec.ConvexRadius = desc.ConvexHull.ConvexRadius
		rec.Material = sw.materialID(desc.ConvexHull.Material)

	case scene.ShapeStaticCompound, scene.ShapeMutableCompound:
		if desc.Compound == nil {
			return 0, fmt.Errorf("%w: compound without data", ErrSerialization)
		}
		for _, child := range desc.Compound.Children {
			childID, err := sw.shapeID(child.Shape)
			if err != nil {
				return 0, err
			}
			rec.Children = append(rec.Children, childRecord{
				Position: encodeVec3(child.Position),
				Rotation: encodeQuat(child.Rotation),
				Shape:    childID,
			})
		}

	case scene.ShapeRotatedTranslated:
		if desc.RotatedTranslated == nil {
			return 0, fmt.Errorf("%w: rotated translated without data", ErrSerialization)
		}
		innerID, err := sw.shapeID(desc.RotatedTranslated.Inner)
		if err != nil {
			return 0, err
		}
		pos := encodeVec3(desc.RotatedTranslated.Position)
		rot := encodeQuat(desc.RotatedTranslated.Rotation)
		rec.Position = &pos
		rec.Rotation = &rot
		rec.Inner = &innerID

	case scene.ShapeScaled:
		if desc.Scaled == nil {
			return 0, fmt.Errorf("%w: scaled without data", ErrSerialization)
		}
		innerID, err := sw.shapeID(desc.Scaled.Inner)
		if err != nil {
			return 0, err
		}
		sc := encodeVec3(desc.Scaled.Scale)
		rec.Scale = &sc
		rec.Inner = &innerID

	default:
		return 0, fmt.Errorf("%w: unknown shape type %q", ErrSerialization, desc.Type)
	}

	return id, nil
}

// topologyID выдает id топологии мягкого тела в арене
func (sw *streamWriter) topologyID(t *scene.SoftBodyTopology) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("%w: nil soft body topology", ErrSerialization)
	}
	if id, ok := sw.topologyIDs[t]; ok {
		return id, nil
	}

	id := len(sw.doc.Topologies)
	sw.topologyIDs[t] = id

	rec := &topologyRecord{
		Particles: make([]particleRecord, 0, len(t.Particles)),
		Edges:     make([]edgeRecord, 0, len(t.Edges)),
	}
	for _, p := range t.Particles {
		rec.Particles = append(rec.Particles, particleRecord{
			Position: encodeVec3(p.Position),
			InvMass:  p.InvMass,
		})
	}
	for _, e := range t.Edges {
		rec.Edges = append(rec.Edges, edgeRecord{
			Particle1:  e.Particle1,
			Particle2:  e.Particle2,
			RestLength: e.RestLength,
			Compliance: e.Compliance,
		})
	}
	for _, v := range t.Volumes {
		rec.Volumes = append(rec.Volumes, volumeRecord{
			Particles:  v.Particles,
			RestVolume: v.RestVolume,
			Compliance: v.Compliance,
		})
	}
	rec.Materials = sw.materialList(t.Materials)

	sw.doc.Topologies = append(sw.doc.Topologies, rec)
	return id, nil
}
