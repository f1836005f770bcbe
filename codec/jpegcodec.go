package codec

import (
	"fmt"

	"github.com/cocosip/jpegdecode/jpeg/decoder"
)

// DICOM transfer syntax UIDs for the two JPEG variants this module
// decodes; used as registry keys alongside each codec's name.
const (
	UIDJPEGBaseline8Bit    = "1.2.840.10008.1.2.4.50"
	UIDJPEGExtendedProcess2And4 = "1.2.840.10008.1.2.4.51"
)

var _ Codec = (*JPEGCodec)(nil)

// JPEGCodec adapts jpeg/decoder to this package's Codec interface for
// direct (non-DICOM) use through Register/Get. It decodes only: Encode
// always returns ErrUnsupportedFormat.
type JPEGCodec struct {
	uid         string
	name        string
	progressive bool
}

// NewBaselineJPEGCodec returns a Codec for JPEG Baseline (Process 1).
func NewBaselineJPEGCodec() *JPEGCodec {
	return &JPEGCodec{uid: UIDJPEGBaseline8Bit, name: "JPEG Baseline (decode only)"}
}

// NewProgressiveJPEGCodec returns a Codec for JPEG Extended, Process 2 & 4.
func NewProgressiveJPEGCodec() *JPEGCodec {
	return &JPEGCodec{uid: UIDJPEGExtendedProcess2And4, name: "JPEG Progressive (decode only)", progressive: true}
}

// UID returns the DICOM transfer syntax UID this codec handles.
func (c *JPEGCodec) UID() string { return c.uid }

// Name returns a human-readable codec name.
func (c *JPEGCodec) Name() string { return c.name }

// Encode always fails: this module implements decoding only.
func (c *JPEGCodec) Encode(params EncodeParams) ([]byte, error) {
	return nil, ErrUnsupportedFormat
}

// Decode decodes one JPEG image and reports its geometry alongside the
// raster pixels.
func (c *JPEGCodec) Decode(data []byte) (*DecodeResult, error) {
	dec := decoder.NewDecoder()
	pixels, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("jpeg codec decode: %w", err)
	}
	info, _ := dec.Info()
	return &DecodeResult{
		PixelData:  pixels,
		Width:      int(info.Width),
		Height:     int(info.Height),
		Components: info.Components,
		BitDepth:   8,
	}, nil
}

func init() {
	Register(NewBaselineJPEGCodec())
	Register(NewProgressiveJPEGCodec())
}
