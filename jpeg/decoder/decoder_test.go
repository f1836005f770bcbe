package decoder

import "testing"

func TestIllegalMagicBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"wrong two bytes", []byte{0x00, 0x00}},
		{"empty input", []byte{}},
		{"single byte", []byte{0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			_, err := d.Decode(tt.data)
			if _, ok := err.(IllegalMagicBytes); !ok {
				t.Fatalf("Decode() error = %v (%T), want IllegalMagicBytes", err, err)
			}
		})
	}
}

func TestTruncatedAfterSOI(t *testing.T) {
	d := NewDecoder()
	_, err := d.Decode([]byte{0xFF, 0xD8})
	if _, ok := err.(Truncated); !ok {
		t.Fatalf("Decode() error = %v (%T), want Truncated", err, err)
	}
}

func TestUnsupportedSOF1(t *testing.T) {
	var buf []byte
	buf = append(buf, 0xFF, 0xD8) // SOI
	buf = append(buf, 0xFF, 0xC1, 0x00, 0x0B,
		0x08,
		0x00, 0x08,
		0x00, 0x08,
		0x01,
		0x01, 0x11, 0x00,
	) // SOF1 (Extended Sequential DCT), unsupported
	buf = append(buf, 0xFF, 0xD9) // EOI

	d := NewDecoder()
	_, err := d.Decode(buf)
	um, ok := err.(UnsupportedMode)
	if !ok {
		t.Fatalf("Decode() error = %v (%T), want UnsupportedMode", err, err)
	}
	if um.Marker != 0xC1 {
		t.Errorf("UnsupportedMode.Marker = %#x, want 0xC1", um.Marker)
	}
}

func TestDimensionsTooLarge(t *testing.T) {
	var buf []byte
	buf = append(buf, 0xFF, 0xD8) // SOI
	// 20000x10000 = 2e8 pixels, over the 1<<27 (~1.34e8) limit.
	buf = append(buf, 0xFF, 0xC0, 0x00, 0x0B,
		0x08,
		0x27, 0x10, // height 10000
		0x4E, 0x20, // width 20000
		0x01,
		0x01, 0x11, 0x00,
	)
	buf = append(buf, 0xFF, 0xD9)

	d := NewDecoder()
	_, err := d.Decode(buf)
	dl, ok := err.(DimensionsTooLarge)
	if !ok {
		t.Fatalf("Decode() error = %v (%T), want DimensionsTooLarge", err, err)
	}
	if dl.Width != 20000 || dl.Height != 10000 {
		t.Errorf("DimensionsTooLarge = %+v, want {20000 10000}", dl)
	}
}

// buildMinimalGrayscaleJPEG assembles a single-MCU 8x8 grayscale baseline
// image: quant table all-ones, a one-code DC table for category 4, a
// one-code AC table for EOB, and an entropy payload of DC=10 then EOB.
func buildMinimalGrayscaleJPEG() []byte {
	var buf []byte
	buf = append(buf, 0xFF, 0xD8)

	dqt := []byte{0xFF, 0xDB, 0x00, 0x43, 0x00}
	for i := 0; i < 64; i++ {
		dqt = append(dqt, 0x01)
	}
	buf = append(buf, dqt...)

	buf = append(buf, 0xFF, 0xC0, 0x00, 0x0B,
		0x08,
		0x00, 0x08,
		0x00, 0x08,
		0x01,
		0x01, 0x11, 0x00,
	)

	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x04,
	)
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x10,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
	)

	buf = append(buf, 0xFF, 0xDA, 0x00, 0x08,
		0x01,
		0x01, 0x00,
		0x00, 0x3F, 0x00,
	)

	buf = append(buf, 0x29) // DC "00"+"1010"(=10), AC EOB "0", pad "1"
	buf = append(buf, 0xFF, 0xD9)
	return buf
}

func TestDecodeBaselineGrayscaleAllZeroAC(t *testing.T) {
	d := NewDecoder()
	out, err := d.Decode(buildMinimalGrayscaleJPEG())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 8*8*3 {
		t.Fatalf("len(out) = %d, want %d (RGB output)", len(out), 8*8*3)
	}
	for i, v := range out {
		if v != 129 {
			t.Fatalf("out[%d] = %d, want 129", i, v)
		}
	}

	info, ok := d.Info()
	if !ok {
		t.Fatal("Info() reported no successful decode")
	}
	if info.Width != 8 || info.Height != 8 {
		t.Errorf("Info() dimensions = %dx%d, want 8x8", info.Width, info.Height)
	}
	if info.Components != 1 {
		t.Errorf("Info().Components = %d, want 1", info.Components)
	}
	if info.SOFMarker != SOFBaseline {
		t.Errorf("Info().SOFMarker = %v, want SOFBaseline", info.SOFMarker)
	}
}

func TestDecodeGrayscaleOutput(t *testing.T) {
	d := NewDecoder()
	d.SetOutputColorSpace(ColorSpaceGrayscale)
	out, err := d.Decode(buildMinimalGrayscaleJPEG())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 8*8 {
		t.Fatalf("len(out) = %d, want %d (grayscale output)", len(out), 8*8)
	}
	for i, v := range out {
		if v != 129 {
			t.Fatalf("out[%d] = %d, want 129", i, v)
		}
	}
}

func TestDecodeIsIdempotentAcrossCalls(t *testing.T) {
	data := buildMinimalGrayscaleJPEG()
	d := NewDecoder()

	first, err := d.Decode(data)
	if err != nil {
		t.Fatalf("first Decode() error = %v", err)
	}
	second, err := d.Decode(data)
	if err != nil {
		t.Fatalf("second Decode() error = %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("output length changed across calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("output differs at byte %d: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestSetOutputColorSpaceCalledTwiceIsNoOp(t *testing.T) {
	d := NewDecoder()
	d.SetOutputColorSpace(ColorSpaceRGBA)
	d.SetOutputColorSpace(ColorSpaceRGBA)
	if d.colorSpace != ColorSpaceRGBA {
		t.Errorf("colorSpace = %v, want ColorSpaceRGBA", d.colorSpace)
	}
}

// buildFourTwoZeroJPEG assembles a 16x16, 4:2:0-subsampled, 3-component
// image whose single MCU decodes to flat mid-gray (every DC diff and AC
// run is zero), exercising the upsample path for Cb/Cr against a 2x2
// luma sampling factor.
func buildFourTwoZeroJPEG() []byte {
	var buf []byte
	buf = append(buf, 0xFF, 0xD8)

	dqt := []byte{0xFF, 0xDB, 0x00, 0x43, 0x00}
	for i := 0; i < 64; i++ {
		dqt = append(dqt, 0x01)
	}
	buf = append(buf, dqt...)

	buf = append(buf, 0xFF, 0xC0, 0x00, 0x11,
		0x08,
		0x00, 0x10, // height 16
		0x00, 0x10, // width 16
		0x03,
		0x01, 0x22, 0x00, // Y: h=2,v=2
		0x02, 0x11, 0x00, // Cb: h=1,v=1
		0x03, 0x11, 0x00, // Cr: h=1,v=1
	)

	// DC table 0: one code, length 1, symbol 0 (category 0, diff always 0).
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
	)
	// AC table 0: one code, length 1, symbol 0x00 (EOB).
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x10,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
	)

	buf = append(buf, 0xFF, 0xDA, 0x00, 0x0C,
		0x03,
		0x01, 0x00,
		0x02, 0x00,
		0x03, 0x00,
		0x00, 0x3F, 0x00,
	)

	// 6 blocks (4 Y + 1 Cb + 1 Cr), each a 1-bit DC code then a 1-bit AC
	// EOB code, all zero: 12 zero bits, padded to two zero bytes.
	buf = append(buf, 0x00, 0x00)
	buf = append(buf, 0xFF, 0xD9)
	return buf
}

func TestDecodeFourTwoZeroUpsampling(t *testing.T) {
	d := NewDecoder()
	out, err := d.Decode(buildFourTwoZeroJPEG())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 16*16*3 {
		t.Fatalf("len(out) = %d, want %d", len(out), 16*16*3)
	}
	for i, v := range out {
		if v != 128 {
			t.Fatalf("out[%d] = %d, want 128 (flat mid-gray through upsample+color-convert)", i, v)
		}
	}

	info, ok := d.Info()
	if !ok {
		t.Fatal("Info() reported no successful decode")
	}
	if info.Components != 3 {
		t.Errorf("Info().Components = %d, want 3", info.Components)
	}
}

// buildRestartIntervalJPEG assembles a 16x8 grayscale baseline image with
// two MCUs and a DRI-declared restart_interval of 1, so RST0 appears
// between them: both blocks encode the same DC diff against a predictor
// reset to zero at the restart boundary.
func buildRestartIntervalJPEG() []byte {
	var buf []byte
	buf = append(buf, 0xFF, 0xD8)

	dqt := []byte{0xFF, 0xDB, 0x00, 0x43, 0x00}
	for i := 0; i < 64; i++ {
		dqt = append(dqt, 0x01)
	}
	buf = append(buf, dqt...)

	buf = append(buf, 0xFF, 0xC0, 0x00, 0x0B,
		0x08,
		0x00, 0x08, // height 8
		0x00, 0x10, // width 16 (two MCUs at 1x1 sampling)
		0x01,
		0x01, 0x11, 0x00,
	)

	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x04,
	)
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x10,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
	)

	// DRI: restart_interval = 1, so a restart marker falls between the
	// two MCUs below.
	buf = append(buf, 0xFF, 0xDD, 0x00, 0x04, 0x00, 0x01)

	buf = append(buf, 0xFF, 0xDA, 0x00, 0x08,
		0x01,
		0x01, 0x00,
		0x00, 0x3F, 0x00,
	)

	// MCU0: DC "00"+"1010"(=10), AC EOB "0", pad "1" -> 0x29.
	buf = append(buf, 0x29)
	// RST0 between the two restart-interval-1 MCUs.
	buf = append(buf, 0xFF, 0xD0)
	// MCU1: same bit pattern; dcPredictor was reset to 0 at the restart,
	// so this also decodes to DC=10.
	buf = append(buf, 0x29)

	buf = append(buf, 0xFF, 0xD9)
	return buf
}

func TestDecodeHonorsRestartInterval(t *testing.T) {
	d := NewDecoder()
	out, err := d.Decode(buildRestartIntervalJPEG())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 16*8*3 {
		t.Fatalf("len(out) = %d, want %d", len(out), 16*8*3)
	}
	for i, v := range out {
		if v != 129 {
			t.Fatalf("out[%d] = %d, want 129 (both MCUs decode DC=10 across the restart)", i, v)
		}
	}
}

// buildProgressiveJPEG assembles a single-MCU 8x8 grayscale SOF2 image
// decoded across two scans: a DC-first scan carrying DC=10, then an
// AC-refinement scan whose sole coded symbol declares a nonzero
// end-of-band run (r=1, one extra run-length bit of 0 -> eobRun=1) and so
// contributes no AC energy, leaving the same all-zero-AC reconstruction
// as the baseline fixtures.
func buildProgressiveJPEG() []byte {
	var buf []byte
	buf = append(buf, 0xFF, 0xD8)

	dqt := []byte{0xFF, 0xDB, 0x00, 0x43, 0x00}
	for i := 0; i < 64; i++ {
		dqt = append(dqt, 0x01)
	}
	buf = append(buf, dqt...)

	buf = append(buf, 0xFF, 0xC2, 0x00, 0x0B,
		0x08,
		0x00, 0x08,
		0x00, 0x08,
		0x01,
		0x01, 0x11, 0x00,
	)

	// DC table 0: one code, length 2, symbol 4 (category 4).
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x04,
	)
	// AC table 0: one code, length 1, symbol 0x10 (r=1, ssss=0 -> an
	// end-of-band run declaration, not a ZRL or a coefficient).
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x10,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x10,
	)

	// Scan 1: DC first, Ss=0 Se=0 Ah=0 Al=0.
	buf = append(buf, 0xFF, 0xDA, 0x00, 0x08,
		0x01,
		0x01, 0x00,
		0x00, 0x00, 0x00,
	)
	// DC code "00" + magnitude "1010"(=10), pad "11" -> 0x2B.
	buf = append(buf, 0x2B)

	// Scan 2: AC refinement, Ss=1 Se=63 Ah=1 Al=0.
	buf = append(buf, 0xFF, 0xDA, 0x00, 0x08,
		0x01,
		0x01, 0x00,
		0x01, 0x3F, 0x10,
	)
	// AC code "0" (rs=0x10) + 1 run-length bit "0" (eobRun=(1<<1)-1+0=1),
	// pad "111111" -> 0x3F. The block has no prior nonzero AC
	// coefficients, so the run contributes no refinement bits.
	buf = append(buf, 0x3F)

	buf = append(buf, 0xFF, 0xD9)
	return buf
}

func TestDecodeProgressiveDCFirstThenACRefine(t *testing.T) {
	d := NewDecoder()
	out, err := d.Decode(buildProgressiveJPEG())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 8*8*3 {
		t.Fatalf("len(out) = %d, want %d", len(out), 8*8*3)
	}
	for i, v := range out {
		if v != 129 {
			t.Fatalf("out[%d] = %d, want 129 (DC=10, quant=1, zero AC)", i, v)
		}
	}

	info, ok := d.Info()
	if !ok {
		t.Fatal("Info() reported no successful decode")
	}
	if info.SOFMarker != SOFProgressive {
		t.Errorf("Info().SOFMarker = %v, want SOFProgressive", info.SOFMarker)
	}
}

func TestOneByOneJPEG(t *testing.T) {
	var buf []byte
	buf = append(buf, 0xFF, 0xD8)
	dqt := []byte{0xFF, 0xDB, 0x00, 0x43, 0x00}
	for i := 0; i < 64; i++ {
		dqt = append(dqt, 0x01)
	}
	buf = append(buf, dqt...)
	buf = append(buf, 0xFF, 0xC0, 0x00, 0x0B,
		0x08,
		0x00, 0x01,
		0x00, 0x01,
		0x01,
		0x01, 0x11, 0x00,
	)
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
	)
	buf = append(buf, 0xFF, 0xC4, 0x00, 0x14, 0x10,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
	)
	buf = append(buf, 0xFF, 0xDA, 0x00, 0x08,
		0x01,
		0x01, 0x00,
		0x00, 0x3F, 0x00,
	)
	buf = append(buf, 0x00) // DC "0" + AC EOB "0", padded with zero
	buf = append(buf, 0xFF, 0xD9)

	d := NewDecoder()
	out, err := d.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 1*1*3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	if out[0] != 128 || out[1] != 128 || out[2] != 128 {
		t.Errorf("out = %v, want [128 128 128]", out)
	}
}
