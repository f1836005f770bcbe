package dicomcodec

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

var _ codec.Parameters = (*Parameters)(nil)

// Parameters carries the output color space this codec decodes into.
// There is no quality or bit-depth knob because this codec never
// encodes; the zero value decodes to RGB.
type Parameters struct {
	ColorSpace string // "rgb" (default), "rgba", "grayscale", "ycbcr"

	params map[string]interface{}
}

// NewParameters returns decode-only parameters defaulted to RGB output.
func NewParameters() *Parameters {
	return &Parameters{ColorSpace: "rgb", params: make(map[string]interface{})}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters).
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case "color_space":
		return p.ColorSpace
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters).
func (p *Parameters) SetParameter(name string, value interface{}) {
	switch name {
	case "color_space":
		if v, ok := value.(string); ok {
			p.ColorSpace = v
		}
	default:
		p.params[name] = value
	}
}

// Validate resets an empty color space to the default rather than
// rejecting it.
func (p *Parameters) Validate() error {
	if p.ColorSpace == "" {
		p.ColorSpace = "rgb"
	}
	return nil
}
