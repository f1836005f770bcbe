package common

// scaleBits folds together the 1<<12 multiplier scaling, the 1<<2 carried
// over from the first (column) pass, and the 1<<3 from the sqrt(8)
// horizontal/vertical normalization, plus a level shift of 128 rounded
// into the same shift.
const scaleBits = 512 + 65536 + (128 << 17)

// IDCT performs combined dequantization, a scaled integer inverse DCT,
// and level shift (+128) on one 8x8 block of coefficients, writing clamped 0..255 samples into out at outOffset with the given row
// stride. coeffs and qt are both in natural (row-major) order; callers
// de-zig-zag before calling.
func IDCT(coeffs *[64]int32, qt *[64]int32, out []byte, outOffset, stride int) {
	var tmp [64]int32

	for ptr := 0; ptr < 8; ptr++ {
		if coeffs[ptr+8] == 0 && coeffs[ptr+16] == 0 && coeffs[ptr+24] == 0 &&
			coeffs[ptr+32] == 0 && coeffs[ptr+40] == 0 && coeffs[ptr+48] == 0 && coeffs[ptr+56] == 0 {
			dc := dequantize(coeffs[ptr], qt[ptr]) << 2
			tmp[ptr] = dc
			tmp[ptr+8] = dc
			tmp[ptr+16] = dc
			tmp[ptr+24] = dc
			tmp[ptr+32] = dc
			tmp[ptr+40] = dc
			tmp[ptr+48] = dc
			tmp[ptr+56] = dc
			continue
		}

		p2 := dequantize(coeffs[ptr+16], qt[ptr+16])
		p3 := dequantize(coeffs[ptr+48], qt[ptr+48])

		p1 := (p2 + p3) * 2217
		t2 := p1 + p3*-7567
		t3 := p1 + p2*3135

		p2 = dequantize(coeffs[ptr], qt[ptr])
		p3 = dequantize(coeffs[ptr+32], qt[ptr+32])

		t0 := fsh(p2 + p3)
		t1 := fsh(p2 - p3)

		x0 := t0 + t3 + 512
		x3 := t0 - t3 + 512
		x1 := t1 + t2 + 512
		x2 := t1 - t2 + 512

		o0 := dequantize(coeffs[ptr+56], qt[ptr+56])
		o1 := dequantize(coeffs[ptr+40], qt[ptr+40])
		o2 := dequantize(coeffs[ptr+24], qt[ptr+24])
		o3 := dequantize(coeffs[ptr+8], qt[ptr+8])

		op3 := o0 + o2
		op4 := o1 + o3
		op1 := o0 + o3
		op2 := o1 + o2

		op5 := (op3 + op4) * 4816

		o0 *= 1223
		o1 *= 8410
		o2 *= 12586
		o3 *= 6149

		op1 = op5 + op1*-3685
		op2 = op5 + op2*-10497
		op3 = op3 * -8034
		op4 = op4 * -1597

		o3 += op1 + op4
		o2 += op2 + op3
		o1 += op2 + op4
		o0 += op1 + op3

		tmp[ptr] = (x0 + o3) >> 10
		tmp[ptr+8] = (x1 + o2) >> 10
		tmp[ptr+16] = (x2 + o1) >> 10
		tmp[ptr+24] = (x3 + o0) >> 10
		tmp[ptr+32] = (x3 - o0) >> 10
		tmp[ptr+40] = (x2 - o1) >> 10
		tmp[ptr+48] = (x1 - o2) >> 10
		tmp[ptr+56] = (x0 - o3) >> 10
	}

	pos := outOffset
	for i := 0; i < 64; i += 8 {
		p2 := tmp[i+2]
		p3 := tmp[i+6]

		p1 := (p2 + p3) * 2217
		t2 := p1 + p3*-7567
		t3 := p1 + p2*3135

		p2 = tmp[i]
		p3 = tmp[i+4]

		t0 := fsh(p2 + p3)
		t1 := fsh(p2 - p3)

		x0 := t0 + t3 + scaleBits
		x3 := t0 - t3 + scaleBits
		x1 := t1 + t2 + scaleBits
		x2 := t1 - t2 + scaleBits

		o0 := tmp[i+7]
		o1 := tmp[i+5]
		o2 := tmp[i+3]
		o3 := tmp[i+1]

		op3 := o0 + o2
		op4 := o1 + o3
		op1 := o0 + o3
		op2 := o1 + o2

		op5 := (op3 + op4) * 4816

		o0 *= 1223
		o1 *= 8410
		o2 *= 12586
		o3 *= 6149

		op1 = op5 + op1*-3685
		op2 = op5 + op2*-10497
		op3 = op3 * -8034
		op4 = op4 * -1597

		o3 += op1 + op4
		o2 += op2 + op3
		o1 += op2 + op4
		o0 += op1 + op3

		row := out[pos : pos+8]
		row[0] = clampSample((x0 + o3) >> 17)
		row[1] = clampSample((x1 + o2) >> 17)
		row[2] = clampSample((x2 + o1) >> 17)
		row[3] = clampSample((x3 + o0) >> 17)
		row[4] = clampSample((x3 - o0) >> 17)
		row[5] = clampSample((x2 - o1) >> 17)
		row[6] = clampSample((x1 - o2) >> 17)
		row[7] = clampSample((x0 - o3) >> 17)

		pos += stride
	}
}

func dequantize(a, b int32) int32 { return a * b }

func fsh(x int32) int32 { return x << 12 }

func clampSample(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
