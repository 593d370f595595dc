package objectstream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x-scene/internal/scene"
	"x-scene/internal/world"
)

func roundTrip(t *testing.T, original *scene.Scene) *scene.Scene {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))
	restored, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return restored
}

func TestRoundTripCountsAndOrder(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	restored := roundTrip(t, original)

	require.Len(t, restored.Bodies, len(original.Bodies))
	require.Len(t, restored.Constraints, len(original.Constraints))
	require.Len(t, restored.SoftBodies, len(original.SoftBodies))

	// Порядок последовательностей значим и сохраняется точно
	for i := range original.Bodies {
		assert.Equal(t, original.Bodies[i].Shape.Type, restored.Bodies[i].Shape.Type, "body %d", i)
		assert.Equal(t, original.Bodies[i].Motion, restored.Bodies[i].Motion, "body %d", i)
		assert.Equal(t, original.Bodies[i].Layer, restored.Bodies[i].Layer, "body %d", i)
		assert.Equal(t, original.Bodies[i].Position, restored.Bodies[i].Position, "body %d", i)
		assert.Equal(t, original.Bodies[i].Rotation, restored.Bodies[i].Rotation, "body %d", i)
	}
}

func TestRoundTripConstraintIndices(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	restored := roundTrip(t, original)

	require.Len(t, restored.Constraints, 1)
	c := restored.Constraints[0]
	assert.Equal(t, 3, c.BodyA)
	assert.Equal(t, 4, c.BodyB)
	assert.Equal(t, scene.SpaceLocalToBodyCOM, c.Settings.Space)
	assert.Equal(t, scene.ShapeSphere, restored.Bodies[3].Shape.Type)
	assert.Equal(t, scene.ShapeBox, restored.Bodies[4].Shape.Type)
}

func TestRoundTripSharedShapeIdentity(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	restored := roundTrip(t, original)

	// Оболочка: прямое тело и обертка ссылаются на один
	// восстановленный объект, не на две копии
	hull := restored.Bodies[12].Shape
	wrapped := restored.Bodies[13].Shape
	require.Equal(t, scene.ShapeConvexHull, hull.Type)
	require.Equal(t, scene.ShapeRotatedTranslated, wrapped.Type)
	assert.Same(t, hull, wrapped.RotatedTranslated.Inner)

	// Под-компаунд встроен дважды как один объект
	compound := restored.Bodies[11].Shape
	require.Equal(t, scene.ShapeStaticCompound, compound.Type)
	require.Len(t, compound.Compound.Children, 2)
	assert.Same(t, compound.Compound.Children[0].Shape, compound.Compound.Children[1].Shape)

	// Разделение подтверждается и тегами запекания
	w := world.NewWorld()
	require.NoError(t, restored.Instantiate(w))
	bodies := w.GetAllBodies()
	assert.Equal(t, bodies[12].Shape.Tag, bodies[13].Shape.Children[0].Shape.Tag)
	assert.Same(t, bodies[12].Shape, bodies[13].Shape.Children[0].Shape)
}

func TestRoundTripSoftBodyTopologySharing(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	restored := roundTrip(t, original)

	require.Len(t, restored.SoftBodies, 3)
	assert.Same(t, restored.SoftBodies[0].Topology, restored.SoftBodies[1].Topology)
	assert.NotSame(t, restored.SoftBodies[0].Topology, restored.SoftBodies[2].Topology)
	assert.Equal(t, float32(2000.0), restored.SoftBodies[2].Pressure)

	// Производный индекс не переносится и перестраивается один раз
	shared := restored.SoftBodies[0].Topology
	require.False(t, shared.Optimized())
	assert.True(t, shared.Optimize())
	assert.False(t, shared.Optimize())
}

func TestRoundTripHeightFieldHole(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)
	originalHF := original.Bodies[1].Shape.HeightField

	restored := roundTrip(t, original)
	restoredHF := restored.Bodies[1].Shape.HeightField
	require.NotNil(t, restoredHF)

	n := restoredHF.SampleCount
	require.Equal(t, originalHF.SampleCount, n)
	assert.Equal(t, scene.NoCollision, restoredHF.Heights[2*n+2])

	// Окружающие сэмплы не изменились
	require.Len(t, restoredHF.Heights, len(originalHF.Heights))
	for i := range originalHF.Heights {
		assert.Equal(t, originalHF.Heights[i], restoredHF.Heights[i], "sample %d", i)
	}
	assert.Equal(t, originalHF.MaterialIndices, restoredHF.MaterialIndices)
}

func TestRoundTripMaterials(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	restored := roundTrip(t, original)

	origMesh := original.Bodies[0].Shape.Scaled.Inner.Mesh
	restMesh := restored.Bodies[0].Shape.Scaled.Inner.Mesh
	require.Len(t, restMesh.Materials, len(origMesh.Materials))
	for i := range origMesh.Materials {
		assert.Equal(t, origMesh.Materials[i].Name, restMesh.Materials[i].Name)
		assert.Equal(t, origMesh.Materials[i].Color, restMesh.Materials[i].Color)
	}
}

func TestRoundTripInstantiateEquivalence(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	restored := roundTrip(t, original)

	worldA := world.NewWorld()
	require.NoError(t, original.Instantiate(worldA))
	worldB := world.NewWorld()
	require.NoError(t, restored.Instantiate(worldB))

	bodiesA, constraintsA, softA := worldA.Counts()
	bodiesB, constraintsB, softB := worldB.Counts()
	assert.Equal(t, bodiesA, bodiesB)
	assert.Equal(t, constraintsA, constraintsB)
	assert.Equal(t, softA, softB)
	assert.Equal(t, 15, bodiesB)
	assert.Equal(t, 1, constraintsB)
	assert.Equal(t, 3, softB)

	// Связаны те же тела
	ca := worldA.GetConstraints()[0]
	cb := worldB.GetConstraints()[0]
	assert.Equal(t, ca.BodyA, cb.BodyA)
	assert.Equal(t, ca.BodyB, cb.BodyB)
}

func TestEmptySceneRoundTrip(t *testing.T) {
	restored := roundTrip(t, scene.NewScene())

	// Пустая сцена - корректный результат, не ошибка
	assert.Empty(t, restored.Bodies)
	assert.Empty(t, restored.Constraints)
	assert.Empty(t, restored.SoftBodies)
}

func TestWriteNilScene(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, nil)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestReadUnknownShapeTag(t *testing.T) {
	doc := `{
		"format": "x-scene",
		"shapes": [{"type": "wobble"}],
		"materials": [], "topologies": [], "constraints": [], "soft_bodies": [],
		"bodies": [{"shape": 0, "position": [0,0,0], "rotation": [0,0,0,1], "motion": "dynamic", "layer": "moving"}]
	}`
	_, err := Read(strings.NewReader(doc))
	require.ErrorIs(t, err, ErrSerialization)
	assert.Contains(t, err.Error(), "wobble")
}

func TestReadDanglingShapeReference(t *testing.T) {
	doc := `{
		"format": "x-scene",
		"shapes": [], "materials": [], "topologies": [], "constraints": [], "soft_bodies": [],
		"bodies": [{"shape": 5, "position": [0,0,0], "rotation": [0,0,0,1], "motion": "dynamic", "layer": "moving"}]
	}`
	_, err := Read(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestReadDanglingMaterialReference(t *testing.T) {
	doc := `{
		"format": "x-scene",
		"shapes": [{"type": "sphere", "radius": 0.5, "material": 3}],
		"materials": [], "topologies": [], "bodies": [], "constraints": [], "soft_bodies": []
	}`
	_, err := Read(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestReadTruncatedStream(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))

	truncated := buf.Bytes()[:buf.Len()/2]
	_, err = Read(bytes.NewReader(truncated))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestReadUnexpectedFormat(t *testing.T) {
	doc := `{"format": "other", "shapes": [], "materials": [], "topologies": [], "bodies": [], "constraints": [], "soft_bodies": []}`
	_, err := Read(strings.NewReader(doc))
	require.ErrorIs(t, err, ErrSerialization)
	assert.Contains(t, err.Error(), "format")
}

func TestReadUnknownMotionType(t *testing.T) {
	doc := `{
		"format": "x-scene",
		"shapes": [{"type": "empty"}],
		"materials": [], "topologies": [], "constraints": [], "soft_bodies": [],
		"bodies": [{"shape": 0, "position": [0,0,0], "rotation": [0,0,0,1], "motion": "wiggly", "layer": "moving"}]
	}`
	_, err := Read(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestWriteSharedShapeOnce(t *testing.T) {
	original, err := scene.BuildSampleScene()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))

	// Тетраэдр оболочки записан единственный раз, второе вхождение -
	// обратная ссылка по id
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"convex_hull"`)))
}
