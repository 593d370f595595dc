package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSoftBodyCube(t *testing.T) {
	topology := CreateSoftBodyCube(3, 0.2)

	assert.Len(t, topology.Particles, 27)
	assert.NotEmpty(t, topology.Edges)

	// Все ребра ссылаются на существующие частицы
	for _, e := range topology.Edges {
		assert.GreaterOrEqual(t, e.Particle1, 0)
		assert.Less(t, e.Particle1, len(topology.Particles))
		assert.GreaterOrEqual(t, e.Particle2, 0)
		assert.Less(t, e.Particle2, len(topology.Particles))
		assert.Greater(t, e.RestLength, float32(0))
	}
}

func TestCreateSoftBodySphere(t *testing.T) {
	topology := CreateSoftBodySphere(0.5)

	// Два полюса плюс кольца широт
	assert.Len(t, topology.Particles, 2+7*16)
	assert.NotEmpty(t, topology.Edges)

	for _, p := range topology.Particles {
		assert.InDelta(t, 0.5, p.Position.Len(), 1e-5)
	}
}

func TestTopologyOptimizeRunsOnce(t *testing.T) {
	topology := CreateSoftBodyCube(4, 0.25)

	require.False(t, topology.Optimized())
	assert.True(t, topology.Optimize(), "first optimize must do the work")
	assert.True(t, topology.Optimized())
	assert.False(t, topology.Optimize(), "second optimize must be a no-op")

	// Внутри группы ни одна частица не встречается дважды
	groups := topology.EdgeGroups()
	require.NotNil(t, groups)
	total := 0
	for _, group := range groups {
		seen := map[int]bool{}
		for _, edgeIndex := range group {
			e := topology.Edges[edgeIndex]
			assert.False(t, seen[e.Particle1])
			assert.False(t, seen[e.Particle2])
			seen[e.Particle1] = true
			seen[e.Particle2] = true
		}
		total += len(group)
	}
	assert.Equal(t, len(topology.Edges), total)
}
