package common

// Fixed-point YCbCr->RGB multipliers, each scaled by 1<<16: 1.402,
// 0.344136, 0.714136, 1.772.
const (
	crToR = 91881
	cbToGNeg = 22554
	crToGNeg = 46802
	cbToB = 116130
)

// ColorConvert reads n pixels of upsampled Y/Cb/Cr planes and writes them
// to dst in the converter's own per-pixel layout (1 byte for grayscale,
// 3 for RGB/YCbCr, 4 for RGBA/RGBX).
type ColorConvert func(y, cb, cr []byte, dst []byte, n int)

// ConvertGrayscale copies the luma plane verbatim.
func ConvertGrayscale(y, cb, cr []byte, dst []byte, n int) {
	copy(dst[:n], y[:n])
}

// ConvertYCbCr interleaves the three planes without any colorimetric
// transform; upsampling has already been applied by the caller.
func ConvertYCbCr(y, cb, cr []byte, dst []byte, n int) {
	for i := 0; i < n; i++ {
		dst[3*i] = y[i]
		dst[3*i+1] = cb[i]
		dst[3*i+2] = cr[i]
	}
}

// ConvertRGB performs the YCbCr->RGB transform in batches, writing 3
// bytes per pixel.
func ConvertRGB(y, cb, cr []byte, dst []byte, n int) {
	for i := 0; i < n; i++ {
		r, g, b := ycbcrToRGB(y[i], cb[i], cr[i])
		dst[3*i] = r
		dst[3*i+1] = g
		dst[3*i+2] = b
	}
}

// ConvertRGBA performs the YCbCr->RGB transform with a forced opaque
// alpha channel, writing 4 bytes per pixel.
func ConvertRGBA(y, cb, cr []byte, dst []byte, n int) {
	for i := 0; i < n; i++ {
		r, g, b := ycbcrToRGB(y[i], cb[i], cr[i])
		dst[4*i] = r
		dst[4*i+1] = g
		dst[4*i+2] = b
		dst[4*i+3] = 255
	}
}

// ConvertRGBX returns a converter that writes pad as the fourth byte of
// every pixel, used when the caller needs 32-bit-aligned output without
// alpha semantics.
func ConvertRGBX(pad byte) ColorConvert {
	return func(y, cb, cr []byte, dst []byte, n int) {
		for i := 0; i < n; i++ {
			r, g, b := ycbcrToRGB(y[i], cb[i], cr[i])
			dst[4*i] = r
			dst[4*i+1] = g
			dst[4*i+2] = b
			dst[4*i+3] = pad
		}
	}
}

// ycbcrToRGB converts one pixel using the fixed-point coefficients shared
// by every batch converter above.
func ycbcrToRGB(yy, cb, cr byte) (r, g, b byte) {
	y32 := int32(yy) << 16
	cb32 := int32(cb) - 128
	cr32 := int32(cr) - 128

	r32 := (y32 + crToR*cr32 + 32768) >> 16
	g32 := (y32 - cbToGNeg*cb32 - crToGNeg*cr32 + 32768) >> 16
	b32 := (y32 + cbToB*cb32 + 32768) >> 16

	return clampSample(r32), clampSample(g32), clampSample(b32)
}
