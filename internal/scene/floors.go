package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"x-scene/internal/noise"
)

// MaxFloorHeight - амплитуда процедурного рельефа полов
const MaxFloorHeight = float32(4.0)

// BuildMeshFloor строит треугольную сетку-пол по сетке (n+1)x(n+1) точек
// с высотами из поля heightAt и приподнятым на 2.0 бортиком по краям.
// Индекс материала треугольника растет кольцами от центра, список
// материалов покрывает максимальный использованный индекс.
func BuildMeshFloor(n int, cellSize float32, heightAt noise.Field) (*ShapeDescriptor, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: mesh floor grid size %d", ErrBuild, n)
	}

	// Высоты в узлах сетки
	heights := make([][]float32, n+1)
	for x := 0; x <= n; x++ {
		heights[x] = make([]float32, n+1)
		for z := 0; z <= n; z++ {
			heights[x][z] = MaxFloorHeight * heightAt(float32(x)/float32(n), float32(z)/float32(n))
		}
	}

	// Бортик по периметру, чтобы ограничить тестовую область
	for x := 0; x <= n; x++ {
		heights[x][0] += 2.0
		heights[x][n] += 2.0
	}
	for z := 1; z < n; z++ {
		heights[0][z] += 2.0
		heights[n][z] += 2.0
	}

	// Каждая ячейка делится на два треугольника
	center := float32(n) * cellSize / 2
	maxMaterialIndex := uint32(0)
	var triangles []MeshTriangle
	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			x1 := cellSize*float32(x) - center
			z1 := cellSize*float32(z) - center
			x2 := x1 + cellSize
			z2 := z1 + cellSize

			v1 := mgl32.Vec3{x1, heights[x][z], z1}
			v2 := mgl32.Vec3{x2, heights[x+1][z], z1}
			v3 := mgl32.Vec3{x1, heights[x][z+1], z2}
			v4 := mgl32.Vec3{x2, heights[x+1][z+1], z2}

			// Индекс материала из расстояния центроида ячейки до начала координат
			materialIndex := uint32(v1.Add(v2).Add(v3).Add(v4).Len() / 4.0 / cellSize)
			if materialIndex > maxMaterialIndex {
				maxMaterialIndex = materialIndex
			}

			triangles = append(triangles,
				MeshTriangle{V1: v1, V2: v3, V3: v4, MaterialIndex: materialIndex},
				MeshTriangle{V1: v1, V2: v4, V3: v2, MaterialIndex: materialIndex})
		}
	}

	// Материалы под все использованные индексы
	materials := make([]*Material, 0, maxMaterialIndex+1)
	for i := uint32(0); i <= maxMaterialIndex; i++ {
		materials = append(materials, &Material{
			Name:  fmt.Sprintf("Mesh Material %d", i),
			Color: noise.DistinctColor(int(i)),
		})
	}

	return &ShapeDescriptor{
		Type: ShapeMesh,
		Mesh: &MeshData{Triangles: triangles, Materials: materials},
	}, nil
}

// BuildHeightField строит карту высот n x n с одной дырой-сентинелом
// в точке (2, 2) и индексами материалов по расстоянию от центра.
func BuildHeightField(n int, cellSize float32, heightAt noise.Field) (*ShapeDescriptor, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: height field grid size %d", ErrBuild, n)
	}

	// Сэмплы высот
	heights := make([]float32, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			heights[y*n+x] = MaxFloorHeight * heightAt(float32(x)/float32(n), float32(y)/float32(n))
		}
	}

	// Дыра для проверки выживания сентинела при round-trip
	if n > 2 {
		heights[2*n+2] = NoCollision
	}

	// Индексы материалов по ячейкам (на одну меньше по каждой оси)
	maxMaterialIndex := uint8(0)
	materialIndices := make([]uint8, (n-1)*(n-1))
	halfSize := float32(n) * cellSize / 2
	for y := 0; y < n-1; y++ {
		for x := 0; x < n-1; x++ {
			dx := float32(x)*cellSize - halfSize
			dz := float32(y)*cellSize - halfSize
			materialIndex := uint8(math32.Round(math32.Sqrt(dx*dx+dz*dz) / 10.0))
			if materialIndex > maxMaterialIndex {
				maxMaterialIndex = materialIndex
			}
			materialIndices[y*(n-1)+x] = materialIndex
		}
	}

	materials := make([]*Material, 0, int(maxMaterialIndex)+1)
	for i := 0; i <= int(maxMaterialIndex); i++ {
		materials = append(materials, &Material{
			Name:  fmt.Sprintf("HeightField Material %d", i),
			Color: noise.DistinctColor(i),
		})
	}

	return &ShapeDescriptor{
		Type: ShapeHeightField,
		HeightField: &HeightFieldData{
			Heights:         heights,
			SampleCount:     n,
			Offset:          mgl32.Vec3{-0.5 * cellSize * float32(n), 0, -0.5 * cellSize * float32(n)},
			Scale:           mgl32.Vec3{cellSize, 1.0, cellSize},
			MaterialIndices: materialIndices,
			Materials:       materials,
		},
	}, nil
}
