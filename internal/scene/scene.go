package scene

// Scene - агрегат-корень переносимого описания физического мира:
// упорядоченные списки тел, ограничений и мягких тел. Ограничения
// ссылаются на тела по индексу вставки, поэтому порядок значим.
// Сцена строится один раз, опционально сериализуется и пересобирается,
// затем инстанцируется в живой мир; живой мир описания не мутирует.
type Scene struct {
	Bodies      []*BodyDescription
	Constraints []*ConstraintDescription
	SoftBodies  []*SoftBodyDescription
}

// NewScene создает пустую сцену
func NewScene() *Scene {
	return &Scene{}
}

// AddBody добавляет описание тела и возвращает его индекс
// для последующих ссылок из ограничений
func (s *Scene) AddBody(body *BodyDescription) int {
	s.Bodies = append(s.Bodies, body)
	return len(s.Bodies) - 1
}

// AddConstraint добавляет ограничение между телами bodyA и bodyB.
// Валидность индексов проверяется при инстанцировании.
func (s *Scene) AddConstraint(settings *DistanceConstraintData, bodyA, bodyB int) {
	s.Constraints = append(s.Constraints, &ConstraintDescription{
		Settings: settings,
		BodyA:    bodyA,
		BodyB:    bodyB,
	})
}

// AddSoftBody добавляет описание мягкого тела как есть. Повторная
// передача одной топологии дает несколько описаний с общей топологией.
func (s *Scene) AddSoftBody(desc *SoftBodyDescription) {
	s.SoftBodies = append(s.SoftBodies, desc)
}

// GetBodies возвращает список описаний тел в порядке добавления
func (s *Scene) GetBodies() []*BodyDescription {
	return s.Bodies
}

// GetConstraints возвращает список ограничений в порядке добавления
func (s *Scene) GetConstraints() []*ConstraintDescription {
	return s.Constraints
}

// GetSoftBodies возвращает список описаний мягких тел в порядке добавления
func (s *Scene) GetSoftBodies() []*SoftBodyDescription {
	return s.SoftBodies
}
