package domain

// Category identifies one of the three visualization views of a run.
type Category string

const (
	// CategoryMatched holds model transforms found in the space set.
	CategoryMatched Category = "matched"
	// CategoryUnmatched holds model transforms without a counterpart in the space set.
	CategoryUnmatched Category = "unmatched"
	// CategorySpace holds every transform of the space set.
	CategorySpace Category = "space"
)

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

var (
	Green = Color{0, 1, 0, 1}
	Red   = Color{1, 0, 0, 1}
	Blue  = Color{0, 0, 1, 1}
)

// Color returns the gizmo color of the category.
func (c Category) Color() Color {
	switch c {
	case CategoryMatched:
		return Green
	case CategoryUnmatched:
		return Red
	default:
		return Blue
	}
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i := 0; i < 3; i++ {
		v := c[i]
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		b := byte(v*255 + 0.5)
		buf[1+i*2] = digits[b>>4]
		buf[2+i*2] = digits[b&0x0f]
	}
	return string(buf)
}
