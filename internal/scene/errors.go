package scene

import "errors"

// Ошибки этапов построения и инстанцирования сцены.
// Конкретные случаи оборачиваются через fmt.Errorf с %w,
// проверка - errors.Is.
var (
	// ErrBuild - некорректный вход построителя формы
	ErrBuild = errors.New("scene: build error")

	// ErrReferential - ограничение ссылается на несуществующий индекс тела
	ErrReferential = errors.New("scene: referential error")

	// ErrInstantiation - мир симуляции отверг форму или размещение
	ErrInstantiation = errors.New("scene: instantiation error")
)
