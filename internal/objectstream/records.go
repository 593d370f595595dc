package objectstream

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FormatName - метка формата в заголовке документа
const FormatName = "x-scene"

// vec3 и quat - представление векторов и кватернионов в потоке:
// [x, y, z] и [x, y, z, w]
type vec3 [3]float32
type quat [4]float32

func encodeVec3(v mgl32.Vec3) vec3 {
	return vec3{v.X(), v.Y(), v.Z()}
}

func decodeVec3(v vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func encodeQuat(q mgl32.Quat) quat {
	return quat{q.V.X(), q.V.Y(), q.V.Z(), q.W}
}

func decodeQuat(q quat) mgl32.Quat {
	return mgl32.Quat{V: mgl32.Vec3{q[0], q[1], q[2]}, W: q[3]}
}

// document - корень потока. Формы, материалы и топологии лежат в аренах:
// первое вхождение объекта при обходе получает очередной id, все
// последующие ссылки указывают на тот же id (обратная ссылка).
type document struct {
	Format      string             `json:"format"`
	Shapes      []*shapeRecord     `json:"shapes"`
	Materials   []materialRecord   `json:"materials"`
	Topologies  []*topologyRecord  `json:"topologies"`
	Bodies      []bodyRecord       `json:"bodies"`
	Constraints []constraintRecord `json:"constraints"`
	SoftBodies  []softBodyRecord   `json:"soft_bodies"`
}

type materialRecord struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type triangleRecord struct {
	V1            vec3   `json:"v1"`
	V2            vec3   `json:"v2"`
	V3            vec3   `json:"v3"`
	MaterialIndex uint32 `json:"material_index"`
}

type childRecord struct {
	Position vec3 `json:"position"`
	Rotation quat `json:"rotation"`
	Shape    int  `json:"shape"`
}

// shapeRecord - плоская запись варианта формы. Поле type выбирает
// вариант, остальные поля заполняются по необходимости. Ссылки на
// другие формы и материалы хранятся как id арены.
type shapeRecord struct {
	Type string `json:"type"`

	Radius       float32 `json:"radius,omitempty"`
	HalfHeight   float32 `json:"half_height,omitempty"`
	TopRadius    float32 `json:"top_radius,omitempty"`
	BottomRadius float32 `json:"bottom_radius,omitempty"`
	ConvexRadius float32 `json:"convex_radius,omitempty"`
	HalfExtent   *vec3   `json:"half_extent,omitempty"`

	V1 *vec3 `json:"v1,omitempty"`
	V2 *vec3 `json:"v2,omitempty"`
	V3 *vec3 `json:"v3,omitempty"`

	Points []vec3 `json:"points,omitempty"`

	Triangles []triangleRecord `json:"triangles,omitempty"`

	Heights         []float32 `json:"heights,omitempty"`
	SampleCount     int       `json:"sample_count,omitempty"`
	Offset          *vec3     `json:"offset,omitempty"`
	MaterialIndices []uint8   `json:"material_indices,omitempty"`

	// Материал примитива и список материалов сетки/карты высот
	Material  *int  `json:"material,omitempty"`
	Materials []int `json:"materials,omitempty"`

	Children []childRecord `json:"children,omitempty"`

	// Локальное смещение обертки и масштаб (scaled и height_field)
	Position *vec3 `json:"position,omitempty"`
	Rotation *quat `json:"rotation,omitempty"`
	Scale    *vec3 `json:"scale,omitempty"`
	Inner    *int  `json:"inner,omitempty"`
}

type particleRecord struct {
	Position vec3    `json:"position"`
	InvMass  float32 `json:"inv_mass"`
}

type edgeRecord struct {
	Particle1  int     `json:"p1"`
	Particle2  int     `json:"p2"`
	RestLength float32 `json:"rest_length"`
	Compliance float32 `json:"compliance"`
}

type volumeRecord struct {
	Particles  [4]int  `json:"particles"`
	RestVolume float32 `json:"rest_volume"`
	Compliance float32 `json:"compliance"`
}

// topologyRecord - общая топология мягкого тела. Производный индекс
// групп ребер в поток не попадает и перестраивается после чтения.
type topologyRecord struct {
	Particles []particleRecord `json:"particles"`
	Edges     []edgeRecord     `json:"edges"`
	Volumes   []volumeRecord   `json:"volumes,omitempty"`
	Materials []int            `json:"materials,omitempty"`
}

type bodyRecord struct {
	Shape    int    `json:"shape"`
	Position vec3   `json:"position"`
	Rotation quat   `json:"rotation"`
	Motion   string `json:"motion"`
	Layer    string `json:"layer"`
}

type constraintSettingsRecord struct {
	Space       string  `json:"space"`
	Point1      vec3    `json:"point1"`
	Point2      vec3    `json:"point2"`
	MinDistance float32 `json:"min_distance"`
	MaxDistance float32 `json:"max_distance"`
}

type constraintRecord struct {
	Settings constraintSettingsRecord `json:"settings"`
	BodyA    int                      `json:"body_a"`
	BodyB    int                      `json:"body_b"`
}

type softBodyRecord struct {
	Topology int     `json:"topology"`
	Position vec3    `json:"position"`
	Rotation quat    `json:"rotation"`
	Layer    string  `json:"layer"`
	Pressure float32 `json:"pressure"`
}
