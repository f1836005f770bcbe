// Package dicomcodec adapts jpeg/decoder to go-dicom's imaging codec
// registry, so baseline and progressive JPEG pixel data inside a DICOM
// data set decode through the same entropy/IDCT/upsample/color-convert
// pipeline as standalone files.
package dicomcodec

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/types"

	"github.com/cocosip/jpegdecode/jpeg/decoder"
)

var _ codec.Codec = (*Codec)(nil)

// Codec implements codec.Codec's Decode side for one JPEG transfer
// syntax. There is no encoder: Encode always fails, matching this
// module's scope (decode only).
type Codec struct {
	transferSyntax *transfer.Syntax
	progressive    bool
}

// NewBaselineCodec returns a codec for JPEG Baseline (Process 1), SOF0.
func NewBaselineCodec() *Codec {
	return &Codec{transferSyntax: transfer.JPEGBaseline8Bit}
}

// NewProgressiveCodec returns a codec for JPEG Extended, Process 2 & 4
// (progressive Huffman, SOF2).
func NewProgressiveCodec() *Codec {
	return &Codec{transferSyntax: transfer.JPEGProcess2_4, progressive: true}
}

// Name returns a human-readable codec name.
func (c *Codec) Name() string {
	if c.progressive {
		return "JPEG Extended (Process 2 & 4, decode only)"
	}
	return "JPEG Baseline (Process 1, decode only)"
}

// TransferSyntax returns the transfer syntax this codec handles.
func (c *Codec) TransferSyntax() *transfer.Syntax {
	return c.transferSyntax
}

// GetDefaultParameters returns decode-only parameters defaulted to RGB.
func (c *Codec) GetDefaultParameters() codec.Parameters {
	return NewParameters()
}

// Encode always fails: this module implements decoding only.
func (c *Codec) Encode(oldPixelData types.PixelData, newPixelData types.PixelData, parameters codec.Parameters) error {
	return fmt.Errorf("dicomcodec: %s does not support encoding", c.Name())
}

// Decode decodes every frame of oldPixelData's JPEG-compressed bytes and
// appends the resulting raster frames to newPixelData.
func (c *Codec) Decode(oldPixelData types.PixelData, newPixelData types.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("dicomcodec: source and destination PixelData cannot be nil")
	}

	frameInfo := oldPixelData.GetFrameInfo()
	if frameInfo == nil {
		return fmt.Errorf("dicomcodec: failed to get frame info from source pixel data")
	}

	colorSpace := decoder.ColorSpaceRGB
	if p, ok := parameters.(*Parameters); ok && p != nil {
		colorSpace = colorSpaceFromString(p.ColorSpace)
	}

	frameCount := oldPixelData.FrameCount()
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("dicomcodec: failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("dicomcodec: frame %d pixel data is empty", frameIndex)
		}

		dec := decoder.NewDecoder()
		if frameInfo.SamplesPerPixel == 1 {
			dec.SetOutputColorSpace(decoder.ColorSpaceGrayscale)
		} else {
			dec.SetOutputColorSpace(colorSpace)
		}

		pixels, err := dec.Decode(frameData)
		if err != nil {
			return fmt.Errorf("dicomcodec: decode failed for frame %d: %w", frameIndex, err)
		}

		info, _ := dec.Info()
		if frameInfo.Width > 0 && int(info.Width) != int(frameInfo.Width) {
			return fmt.Errorf("dicomcodec: decoded width (%d) doesn't match expected (%d)", info.Width, frameInfo.Width)
		}
		if frameInfo.Height > 0 && int(info.Height) != int(frameInfo.Height) {
			return fmt.Errorf("dicomcodec: decoded height (%d) doesn't match expected (%d)", info.Height, frameInfo.Height)
		}

		if err := newPixelData.AddFrame(pixels); err != nil {
			return fmt.Errorf("dicomcodec: failed to add decoded frame %d: %w", frameIndex, err)
		}
	}

	return nil
}

func colorSpaceFromString(s string) decoder.ColorSpace {
	switch s {
	case "rgba":
		return decoder.ColorSpaceRGBA
	case "grayscale":
		return decoder.ColorSpaceGrayscale
	case "ycbcr":
		return decoder.ColorSpaceYCbCr
	default:
		return decoder.ColorSpaceRGB
	}
}

// RegisterCodecs registers both the baseline and progressive decoders
// with go-dicom's global imaging codec registry.
func RegisterCodecs() {
	registry := codec.GetGlobalRegistry()
	registry.RegisterCodec(transfer.JPEGBaseline8Bit, NewBaselineCodec())
	registry.RegisterCodec(transfer.JPEGProcess2_4, NewProgressiveCodec())
}

func init() {
	RegisterCodecs()
}
