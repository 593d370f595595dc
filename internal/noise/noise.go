package noise

import (
	"github.com/chewxy/math32"
)

// Field - детерминированное скалярное поле над нормализованными координатами [0..1]
type Field func(x, y float32) float32

// hashNoise2D - простая хеш-функция для псевдо-шума
// В реальном приложении стоит использовать настоящую библиотеку шума Перлина
func hashNoise2D(x, y float32) float32 {
	h := x*12.9898 + y*78.233
	sinH := math32.Sin(h)
	v := math32.Abs(sinH * 43758.5453)
	return v - math32.Floor(v)
}

// lerpValue - плавная интерполяция между a и b
func lerpValue(a, b, t float32) float32 {
	return a + t*(b-a)
}

// smoothstepValue - функция интерполяции для сглаживания
func smoothstepValue(t float32) float32 {
	return t * t * (3.0 - 2.0*t)
}

// Smooth - сглаженный шум в точке (x, y)
func Smooth(x, y float32) float32 {
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	x1 := x0 + 1.0
	y1 := y0 + 1.0

	// Интерполяционные коэффициенты
	sx := smoothstepValue(x - x0)
	sy := smoothstepValue(y - y0)

	// Интерполяция между 4 углами
	n00 := hashNoise2D(x0, y0)
	n10 := hashNoise2D(x1, y0)
	n01 := hashNoise2D(x0, y1)
	n11 := hashNoise2D(x1, y1)

	nx0 := lerpValue(n00, n10, sx)
	nx1 := lerpValue(n01, n11, sx)
	return lerpValue(nx0, nx1, sy)
}

// Fractal - многослойный шум (октавы) для фрактального рельефа
func Fractal(x, y float32) float32 {
	scales := []float32{1.0, 0.5, 0.25, 0.125, 0.0625}
	amplitudes := []float32{0.5, 0.25, 0.125, 0.0625, 0.03125}

	value := float32(0.0)
	for layer := 0; layer < len(scales); layer++ {
		value += Smooth(x*scales[layer]*10.0, y*scales[layer]*10.0) * amplitudes[layer]
	}

	// Нормализуем в диапазон [0..1]
	return (value + 0.5) * 0.5
}
