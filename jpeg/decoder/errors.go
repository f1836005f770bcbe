package decoder

import "fmt"

// IllegalMagicBytes is returned when the first two bytes of the input are
// not the SOI marker 0xFFD8.
type IllegalMagicBytes struct {
	Got uint16
}

func (e IllegalMagicBytes) Error() string {
	return fmt.Sprintf("jpeg: illegal magic bytes 0x%04X, want 0xFFD8", e.Got)
}

// MalformedHeader covers any structurally invalid marker segment:
// truncation inside a header, a length-prefixed marker with length < 2,
// or a reachable-but-impossible geometry (e.g. non-power-of-two sampling
// factors) that valid input never produces.
type MalformedHeader struct {
	Reason string
}

func (e MalformedHeader) Error() string {
	return "jpeg: malformed header: " + e.Reason
}

// UnsupportedMode is returned for a recognized-but-unimplemented SOF
// variant (anything other than SOF0/SOF2), or for DAC/DNL markers.
type UnsupportedMode struct {
	Marker int
}

func (e UnsupportedMode) Error() string {
	return fmt.Sprintf("jpeg: unsupported mode (marker 0x%02X)", e.Marker)
}

// UnsupportedSubsampling is returned when a non-luma component's
// (H, V) sampling ratio relative to (Hmax, Vmax) has no upsampler.
type UnsupportedSubsampling struct {
	H, V, HMax, VMax int
}

func (e UnsupportedSubsampling) Error() string {
	return fmt.Sprintf("jpeg: unsupported subsampling %d:%d against max %d:%d", e.H, e.V, e.HMax, e.VMax)
}

// InvalidHuffmanCode is returned when a bit pattern matches no valid
// Huffman code of any length in the active table.
type InvalidHuffmanCode struct{}

func (e InvalidHuffmanCode) Error() string { return "jpeg: invalid Huffman code" }

// RestartMismatch is returned when the expected RSTn marker is absent or
// out of cycling order at a restart-interval boundary.
type RestartMismatch struct {
	Expected int
}

func (e RestartMismatch) Error() string {
	return fmt.Sprintf("jpeg: restart marker mismatch, expected RST%d", e.Expected&7)
}

// Truncated is returned when the bitstream or a marker segment ends
// before the decoder finishes consuming it.
type Truncated struct{}

func (e Truncated) Error() string { return "jpeg: truncated data" }

// DimensionsTooLarge is returned when width*height exceeds 1<<27, checked
// immediately after SOF before any entropy decode begins.
type DimensionsTooLarge struct {
	Width, Height int
}

func (e DimensionsTooLarge) Error() string {
	return fmt.Sprintf("jpeg: dimensions %dx%d exceed the 1<<27 pixel limit", e.Width, e.Height)
}
