// Package decoder implements the marker-driven state machine, entropy
// decoder, and pixel-reconstruction pipeline for baseline and
// progressive-Huffman JPEG bitstreams.
package decoder

import (
	"os"

	"github.com/cocosip/jpegdecode/jpeg/common"
)

// ColorSpace selects the layout Decode writes into its output slice.
type ColorSpace int

const (
	ColorSpaceYCbCr ColorSpace = iota
	ColorSpaceRGB
	ColorSpaceRGBA
	ColorSpaceRGBX
	ColorSpaceGrayscale
)

// SOFMarker records which start-of-frame variant produced a decoded
// image: SOF0 (baseline) or SOF2 (progressive).
type SOFMarker int

const (
	SOFBaseline SOFMarker = iota
	SOFProgressive
)

// ImageInfo describes a successfully decoded frame's geometry and
// JFIF density, valid only once Info's second return value is true.
type ImageInfo struct {
	Width, Height      uint16
	Components         int
	SOFMarker          SOFMarker
	XDensity, YDensity uint16
}

// maxPixels is the DimensionsTooLarge boundary: width*height must not
// exceed 1<<27.
const maxPixels = 1 << 27

// Decoder holds all state for one decode call: frame geometry, component
// descriptors, installed quant/Huffman tables, and the output color
// space. It is not safe for concurrent use, and its state does not
// persist meaningfully between two calls to Decode beyond the last
// successful ImageInfo and the configured output color space.
type Decoder struct {
	colorSpace ColorSpace
	rgbxPad    byte

	r *common.Reader

	precision     int
	width, height int
	sofMarker     SOFMarker
	progressive   bool
	components    []component
	compByID      map[int]*component

	hMax, vMax                 int
	mcusPerLine, mcusPerColumn int
	restartInterval            int

	quantTables [4]*[64]int32
	dcTables    [4]*common.HuffmanTable
	acTables    [4]*common.HuffmanTable

	xDensity, yDensity uint16

	eobRun int

	decoded bool
	info    ImageInfo

	idct     func(coeffs *[64]int32, qt *[64]int32, out []byte, outOffset, stride int)
	colorCvt common.ColorConvert
}

// NewDecoder returns a decoder configured to emit RGB output without
// further setup.
func NewDecoder() *Decoder {
	return &Decoder{
		colorSpace: ColorSpaceRGB,
		rgbxPad:    0xFF,
		idct:       common.IDCT,
	}
}

// SetOutputColorSpace selects the layout of Decode's returned pixels.
// Calling it twice with the same value leaves state unchanged.
func (d *Decoder) SetOutputColorSpace(cs ColorSpace) {
	d.colorSpace = cs
}

// SetRGBXPadByte sets the fourth byte written per pixel when the output
// color space is RGBX. Defaults to 0xFF.
func (d *Decoder) SetRGBXPadByte(b byte) {
	d.rgbxPad = b
}

// RGB is sugar for SetOutputColorSpace(ColorSpaceRGB).
func (d *Decoder) RGB() { d.SetOutputColorSpace(ColorSpaceRGB) }

// RGBA is sugar for SetOutputColorSpace(ColorSpaceRGBA).
func (d *Decoder) RGBA() { d.SetOutputColorSpace(ColorSpaceRGBA) }

// Info returns the geometry of the last successfully decoded frame. The
// second return value is false if no decode has yet succeeded.
func (d *Decoder) Info() (ImageInfo, bool) {
	return d.info, d.decoded
}

// Width returns the last decoded frame's width, or zero before a
// successful decode.
func (d *Decoder) Width() uint16 {
	if !d.decoded {
		return 0
	}
	return d.info.Width
}

// Height returns the last decoded frame's height, or zero before a
// successful decode.
func (d *Decoder) Height() uint16 {
	if !d.decoded {
		return 0
	}
	return d.info.Height
}

// DecodePath reads path and decodes it, a thin convenience wrapper over
// Decode for callers working against the filesystem directly.
func (d *Decoder) DecodePath(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.Decode(raw)
}

// Decode parses and fully decodes one JPEG image, returning pixels laid
// out per the configured output color space.
func (d *Decoder) Decode(data []byte) ([]byte, error) {
	*d = Decoder{colorSpace: d.colorSpace, rgbxPad: d.rgbxPad, idct: common.IDCT, info: d.info, decoded: d.decoded}

	if len(data) < 2 {
		got := uint16(0)
		if len(data) == 1 {
			got = uint16(data[0]) << 8
		}
		return nil, IllegalMagicBytes{Got: got}
	}
	magic := uint16(data[0])<<8 | uint16(data[1])
	if magic != 0xFFD8 {
		return nil, IllegalMagicBytes{Got: magic}
	}

	d.r = common.NewReader(data)
	d.r.Seek(2)

	if err := d.parseHeaders(); err != nil {
		return nil, err
	}

	out, err := d.finish()
	if err != nil {
		return nil, err
	}

	d.info = ImageInfo{
		Width:      uint16(d.width),
		Height:     uint16(d.height),
		Components: len(d.components),
		SOFMarker:  d.sofMarker,
		XDensity:   d.xDensity,
		YDensity:   d.yDensity,
	}
	d.decoded = true
	return out, nil
}

// bytesPerPixel returns the per-pixel stride of the configured output
// color space.
func (d *Decoder) bytesPerPixel() int {
	switch d.colorSpace {
	case ColorSpaceGrayscale:
		return 1
	case ColorSpaceRGB, ColorSpaceYCbCr:
		return 3
	case ColorSpaceRGBA, ColorSpaceRGBX:
		return 4
	default:
		return 3
	}
}

// selectColorConvert resolves the active color-space selection into a
// converter function, chosen once per decode alongside the IDCT and
// upsample selectors.
func (d *Decoder) selectColorConvert() common.ColorConvert {
	switch d.colorSpace {
	case ColorSpaceGrayscale:
		return common.ConvertGrayscale
	case ColorSpaceYCbCr:
		return common.ConvertYCbCr
	case ColorSpaceRGBA:
		return common.ConvertRGBA
	case ColorSpaceRGBX:
		return common.ConvertRGBX(d.rgbxPad)
	default:
		return common.ConvertRGB
	}
}
