package noise

import (
	"fmt"

	"github.com/chewxy/math32"
)

// DistinctColor возвращает визуально различимый hex-цвет для индекса i.
// Гарантия контракта - разные индексы дают разные цвета, конкретные
// значения не фиксированы.
func DistinctColor(i int) string {
	// Золотое сечение равномерно распределяет оттенки по кругу
	hue := math32.Mod(float32(i)*0.618034, 1.0)
	r, g, b := hsvToRGB(hue, 0.8, 0.95)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// hsvToRGB переводит HSV (все компоненты в [0..1]) в 8-битные RGB
func hsvToRGB(h, s, v float32) (uint8, uint8, uint8) {
	i := int(math32.Floor(h * 6.0))
	f := h*6.0 - float32(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)

	var r, g, b float32
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}

	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}
