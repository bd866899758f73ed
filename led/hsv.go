package led

// HSV is a color in the 8-bit hue, saturation, value space. A full turn of
// the color wheel is 256 hue steps.
type HSV struct {
	H, S, V uint8
}

// RGB converts the color to RGB using integer math only. The wheel is split
// into six sectors of 43 hue steps each.
func (c HSV) RGB() RGBColor {
	if c.V == 0 {
		return Off
	}
	if c.S == 0 {
		return RGBColor{c.V, c.V, c.V}
	}

	region := c.H / 43
	rem := uint16(c.H-region*43) * 6

	v := uint16(c.V)
	s := uint16(c.S)
	p := uint8((v * (255 - s)) >> 8)
	q := uint8((v * (255 - ((s * rem) >> 8))) >> 8)
	t := uint8((v * (255 - ((s * (255 - rem)) >> 8))) >> 8)

	switch region {
	case 0:
		return RGBColor{c.V, t, p}
	case 1:
		return RGBColor{q, c.V, p}
	case 2:
		return RGBColor{p, c.V, t}
	case 3:
		return RGBColor{p, q, c.V}
	case 4:
		return RGBColor{t, p, c.V}
	default:
		return RGBColor{c.V, p, q}
	}
}
