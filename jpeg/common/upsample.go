package common

// Upsampler converts one row-major component plane at its native sampling
// resolution into a plane matching the frame's luma (Hmax, Vmax) grid.
// The selector is chosen once per component at scan setup from its
// (h, v) sampling factors relative to (hmax, vmax).
type Upsampler func(src []byte, srcW, srcH int, dst []byte, dstW, dstH int)

// SelectUpsampler returns the upsampler matching a component's sampling
// ratio relative to the frame maximum, or an error for ratios outside the
// (1,1)/(2,1)/(1,2)/(2,2) set this decoder supports.
func SelectUpsampler(h, v, hmax, vmax int) (Upsampler, error) {
	switch {
	case h == hmax && v == vmax:
		return UpsampleIdentity, nil
	case hmax == 2*h && vmax == v:
		return UpsampleH2, nil
	case hmax == h && vmax == 2*v:
		return UpsampleV2, nil
	case hmax == 2*h && vmax == 2*v:
		return UpsampleHV2, nil
	default:
		return nil, ErrUnsupportedSubsampling
	}
}

// UpsampleIdentity copies src to dst unchanged; used for (1,1) components.
func UpsampleIdentity(src []byte, srcW, srcH int, dst []byte, dstW, dstH int) {
	for y := 0; y < srcH; y++ {
		copy(dst[y*dstW:y*dstW+srcW], src[y*srcW:y*srcW+srcW])
	}
}

// UpsampleH2 doubles horizontal resolution with linear interpolation,
// using nearest-sample duplication at row endpoints.
func UpsampleH2(src []byte, srcW, srcH int, dst []byte, dstW, dstH int) {
	for y := 0; y < srcH; y++ {
		s := src[y*srcW : y*srcW+srcW]
		d := dst[y*dstW : y*dstW+dstW]
		interpH2(s, d)
	}
}

// UpsampleV2 doubles vertical resolution with linear interpolation between
// corresponding samples of adjacent source rows, duplicating the first and
// last rows at the plane edges.
func UpsampleV2(src []byte, srcW, srcH int, dst []byte, dstW, dstH int) {
	for x := 0; x < srcW; x++ {
		for y := 0; y < srcH; y++ {
			cur := int32(src[y*srcW+x])
			var near int32
			if y+1 < srcH {
				near = int32(src[(y+1)*srcW+x])
			} else {
				near = cur
			}
			var prev int32
			if y-1 >= 0 {
				prev = int32(src[(y-1)*srcW+x])
			} else {
				prev = cur
			}
			dst[(2*y)*dstW+x] = clampSample((3*cur + prev + 2) >> 2)
			dst[(2*y+1)*dstW+x] = clampSample((3*cur + near + 2) >> 2)
		}
	}
}

// UpsampleHV2 doubles both dimensions: a vertical pass into an
// intermediate full-height, source-width plane followed by a horizontal
// pass into dst.
func UpsampleHV2(src []byte, srcW, srcH int, dst []byte, dstW, dstH int) {
	mid := make([]byte, srcW*dstH)
	UpsampleV2(src, srcW, srcH, mid, srcW, dstH)
	for y := 0; y < dstH; y++ {
		s := mid[y*srcW : y*srcW+srcW]
		d := dst[y*dstW : y*dstW+dstW]
		interpH2(s, d)
	}
}

// interpH2 doubles the horizontal resolution of one row.
func interpH2(s, d []byte) {
	n := len(s)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		cur := int32(s[i])
		var next, prev int32
		if i+1 < n {
			next = int32(s[i+1])
		} else {
			next = cur
		}
		if i-1 >= 0 {
			prev = int32(s[i-1])
		} else {
			prev = cur
		}
		d[2*i] = clampSample((3*cur + prev + 2) >> 2)
		if 2*i+1 < len(d) {
			d[2*i+1] = clampSample((3*cur + next + 2) >> 2)
		}
	}
}
