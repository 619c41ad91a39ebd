package render

import "image/color"

// fillRGBA sets every pixel in buf to c.
func fillRGBA(buf []byte, c color.RGBA) {
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i+0] = c.R
		buf[i+1] = c.G
		buf[i+2] = c.B
		buf[i+3] = c.A
	}
}

// fadeRGBA composites c at the given opacity over every pixel. Repeated calls
// converge on c, which leaves short trails behind moving shapes.
func fadeRGBA(buf []byte, c color.RGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha >= 1 {
		fillRGBA(buf, c)
		return
	}
	k := uint32(alpha*256 + 0.5)
	inv := 256 - k
	r, g, b, a := uint32(c.R)*k, uint32(c.G)*k, uint32(c.B)*k, uint32(c.A)*k
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i+0] = uint8((uint32(buf[i+0])*inv + r + 128) >> 8)
		buf[i+1] = uint8((uint32(buf[i+1])*inv + g + 128) >> 8)
		buf[i+2] = uint8((uint32(buf[i+2])*inv + b + 128) >> 8)
		buf[i+3] = uint8((uint32(buf[i+3])*inv + a + 128) >> 8)
	}
}

// blendOver composites a non-premultiplied colour with opacity a over the
// premultiplied pixel starting at off.
func blendOver(buf []byte, off int, r, g, b, a float64) {
	if a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}
	inv := 1 - a
	buf[off+0] = uint8(r*a + float64(buf[off+0])*inv + 0.5)
	buf[off+1] = uint8(g*a + float64(buf[off+1])*inv + 0.5)
	buf[off+2] = uint8(b*a + float64(buf[off+2])*inv + 0.5)
	buf[off+3] = uint8(255*a + float64(buf[off+3])*inv + 0.5)
}
