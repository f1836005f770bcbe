package decoder

import "github.com/cocosip/jpegdecode/jpeg/common"

// componentID identifies a channel's role for color conversion; the
// sampling factors and table indices come from the SOF segment, not from
// this identity, but Y/Cb/Cr is assumed for 3-component frames and Y
// alone for single-component (grayscale) frames.
type componentID int

const (
	componentY componentID = iota
	componentCb
	componentCr
)

// component holds per-channel decode state, persisted across all scans
// of a frame: sampling factors and table indices fixed at SOF time, a DC
// predictor mutated during entropy decode, and a plane buffer sized to
// the component's own sampling grid.
type component struct {
	id componentID

	h, v int // sampling factors, each in {1,2,4}

	dcTableIndex int
	acTableIndex int
	quantTableIndex int

	dcPredictor int32

	// blocksPerLine/blocksPerColumn are the component's own 8x8-block
	// grid dimensions, rounded up to a whole number of MCUs.
	blocksPerLine   int
	blocksPerColumn int

	// samplesWidth/samplesHeight are the component's native pixel
	// dimensions (blocksPerLine*8, blocksPerColumn*8) before upsampling.
	samplesWidth  int
	samplesHeight int

	// plane holds decoded, IDCT'd samples at the component's native
	// resolution, row-major with stride samplesWidth.
	plane []byte

	// coeffs holds one 64-entry coefficient block per (blocksPerColumn x
	// blocksPerLine) grid position, persisted across progressive scans.
	// Baseline frames fill it in their single scan; finish reads it for
	// the IDCT in both modes.
	coeffs [][64]int32

	upsample common.Upsampler
}

// blockAt returns the coefficient block for block-grid position (bx, by).
// The backing slice is allocated by parseSOF.
func (c *component) blockAt(bx, by int) *[64]int32 {
	return &c.coeffs[by*c.blocksPerLine+bx]
}
