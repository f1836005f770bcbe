package decoder

import (
	"log"

	"github.com/cocosip/jpegdecode/jpeg/common"
)

const (
	markerDAC = 0xFFCC
	markerDNL = 0xFFDC
)

// readMarker scans past fill bytes (extra 0xFF before the code) and
// returns the next marker as 0xFF00|code.
func (d *Decoder) readMarker() (uint16, error) {
	marker, err := d.r.ReadMarker()
	if err != nil {
		if err == common.ErrTruncated {
			return 0, Truncated{}
		}
		return 0, MalformedHeader{Reason: "expected marker prefix 0xFF"}
	}
	return marker, nil
}

// readSegment reads a length-prefixed marker payload (length includes
// itself) and returns the payload with the length field stripped.
func (d *Decoder) readSegment() ([]byte, error) {
	seg, err := d.r.ReadSegment()
	if err != nil {
		if err == common.ErrTruncated {
			return nil, Truncated{}
		}
		return nil, MalformedHeader{Reason: "segment length < 2"}
	}
	return seg, nil
}

// parseHeaders drives the marker state machine from just after SOI
// through the final EOI, dispatching SOS segments to the entropy decoder
// inline so that restart intervals and scan boundaries share the same
// byte cursor as the header scan.
func (d *Decoder) parseHeaders() error {
	sawSOF := false
	for {
		marker, err := d.readMarker()
		if err != nil {
			return err
		}

		switch {
		case marker == common.MarkerEOI:
			if !sawSOF {
				return MalformedHeader{Reason: "EOI before any SOF"}
			}
			return nil

		case common.IsSOF(marker):
			if marker != common.MarkerSOF0 && marker != common.MarkerSOF2 {
				return UnsupportedMode{Marker: int(marker & 0xFF)}
			}
			if err := d.parseSOF(marker); err != nil {
				return err
			}
			sawSOF = true

		case marker == common.MarkerDQT:
			if err := d.parseDQT(); err != nil {
				return err
			}

		case marker == common.MarkerDHT:
			if err := d.parseDHT(); err != nil {
				return err
			}

		case marker == common.MarkerDRI:
			if err := d.parseDRI(); err != nil {
				return err
			}

		case marker == common.MarkerSOS:
			if !sawSOF {
				return MalformedHeader{Reason: "SOS before any SOF"}
			}
			if err := d.parseSOS(); err != nil {
				return err
			}

		case marker == markerDAC || marker == markerDNL:
			return UnsupportedMode{Marker: int(marker & 0xFF)}

		case marker >= common.MarkerAPP0 && marker <= common.MarkerAPP15:
			if err := d.parseAPPn(marker); err != nil {
				return err
			}

		case marker == common.MarkerCOM:
			if err := d.skipSegment(); err != nil {
				return err
			}

		default:
			log.Printf("jpeg: skipping unrecognized marker 0x%04X", marker)
			if err := d.skipSegment(); err != nil {
				return err
			}
		}
	}
}

func (d *Decoder) skipSegment() error {
	_, err := d.readSegment()
	return err
}

// parseAPPn skips the segment after extracting JFIF density fields from
// APP0 when present; every other application segment carries no
// geometry this decoder needs.
func (d *Decoder) parseAPPn(marker uint16) error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if marker != common.MarkerAPP0 || len(seg) < 14 {
		return nil
	}
	if seg[0] != 'J' || seg[1] != 'F' || seg[2] != 'I' || seg[3] != 'F' || seg[4] != 0x00 {
		return nil
	}
	// seg[5:7] version, seg[7] density units, seg[8:10] Xdensity, seg[10:12] Ydensity
	d.xDensity = uint16(seg[8])<<8 | uint16(seg[9])
	d.yDensity = uint16(seg[10])<<8 | uint16(seg[11])
	return nil
}

// parseSOF reads precision, dimensions, and per-component descriptors,
// computes Hmax/Vmax and the MCU grid, and allocates component plane and
// coefficient storage.
func (d *Decoder) parseSOF(marker uint16) error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) < 6 {
		return MalformedHeader{Reason: "SOF segment too short"}
	}
	precision := int(seg[0])
	if precision != 8 {
		return UnsupportedMode{Marker: int(marker & 0xFF)}
	}
	height := int(seg[1])<<8 | int(seg[2])
	width := int(seg[3])<<8 | int(seg[4])
	numComponents := int(seg[5])
	if numComponents != 1 && numComponents != 3 {
		return MalformedHeader{Reason: "unsupported component count"}
	}
	if width <= 0 || width > 0xFFFF || height <= 0 || height > 0xFFFF {
		return MalformedHeader{Reason: "invalid frame dimensions"}
	}
	if width*height > maxPixels {
		return DimensionsTooLarge{Width: width, Height: height}
	}
	if len(seg) < 6+3*numComponents {
		return MalformedHeader{Reason: "SOF segment truncated for component count"}
	}

	d.precision = precision
	d.width = width
	d.height = height
	if marker == common.MarkerSOF2 {
		d.sofMarker = SOFProgressive
		d.progressive = true
	} else {
		d.sofMarker = SOFBaseline
		d.progressive = false
	}

	d.components = make([]component, numComponents)
	d.compByID = make(map[int]*component, numComponents)
	hMax, vMax := 1, 1
	for i := 0; i < numComponents; i++ {
		base := 6 + 3*i
		id := int(seg[base])
		hv := seg[base+1]
		h := int(hv >> 4)
		v := int(hv & 0x0F)
		quantIdx := int(seg[base+2])
		if !isPowerOfTwoSamplingFactor(h) || !isPowerOfTwoSamplingFactor(v) {
			return MalformedHeader{Reason: "sampling factors must be powers of two"}
		}
		if quantIdx < 0 || quantIdx > 3 {
			return MalformedHeader{Reason: "quant table index out of range"}
		}
		c := &d.components[i]
		c.id = componentIDForIndex(i, numComponents)
		c.h, c.v = h, v
		c.quantTableIndex = quantIdx
		d.compByID[id] = c
		if h > hMax {
			hMax = h
		}
		if v > vMax {
			vMax = v
		}
	}
	sumHV := 0
	for i := range d.components {
		sumHV += d.components[i].h * d.components[i].v
	}
	if sumHV > 10 {
		return MalformedHeader{Reason: "sum of component sampling products exceeds 10"}
	}

	d.hMax, d.vMax = hMax, vMax
	mcuWidth := 8 * hMax
	mcuHeight := 8 * vMax
	d.mcusPerLine = common.DivCeil(width, mcuWidth)
	d.mcusPerColumn = common.DivCeil(height, mcuHeight)

	for i := range d.components {
		c := &d.components[i]
		c.blocksPerLine = d.mcusPerLine * c.h
		c.blocksPerColumn = d.mcusPerColumn * c.v
		c.samplesWidth = c.blocksPerLine * 8
		c.samplesHeight = c.blocksPerColumn * 8
		c.plane = make([]byte, c.samplesWidth*c.samplesHeight)
		c.coeffs = make([][64]int32, c.blocksPerLine*c.blocksPerColumn)
		up, err := common.SelectUpsampler(c.h, c.v, hMax, vMax)
		if err != nil {
			return UnsupportedSubsampling{H: c.h, V: c.v, HMax: hMax, VMax: vMax}
		}
		c.upsample = up
	}
	return nil
}

func isPowerOfTwoSamplingFactor(v int) bool {
	return v == 1 || v == 2 || v == 4
}

func componentIDForIndex(i, numComponents int) componentID {
	if numComponents == 1 {
		return componentY
	}
	switch i {
	case 0:
		return componentY
	case 1:
		return componentCb
	default:
		return componentCr
	}
}

// parseDQT reads one or more quantization tables from a single DQT
// segment, each with a 1-byte (precision<<4|index) header followed by 64
// zig-zag-ordered entries (8-bit or 16-bit per the precision nibble).
func (d *Decoder) parseDQT() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	off := 0
	for off < len(seg) {
		header := seg[off]
		off++
		precision := header >> 4
		index := int(header & 0x0F)
		if index > 3 {
			return MalformedHeader{Reason: "quant table index out of range"}
		}
		var table [64]int32
		if precision == 0 {
			if off+64 > len(seg) {
				return MalformedHeader{Reason: "DQT segment truncated"}
			}
			for i := 0; i < 64; i++ {
				table[common.ZigZag[i]] = int32(seg[off+i])
			}
			off += 64
		} else {
			if off+128 > len(seg) {
				return MalformedHeader{Reason: "DQT segment truncated"}
			}
			for i := 0; i < 64; i++ {
				v := int32(seg[off+2*i])<<8 | int32(seg[off+2*i+1])
				table[common.ZigZag[i]] = v
			}
			off += 128
		}
		d.quantTables[index] = &table
	}
	return nil
}

// parseDHT reads one or more Huffman tables from a single DHT segment,
// each with (class<<4|index), a 16-entry length histogram, then the
// concatenated symbol list.
func (d *Decoder) parseDHT() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	off := 0
	for off < len(seg) {
		header := seg[off]
		off++
		class := header >> 4
		index := int(header & 0x0F)
		if index > 3 {
			return MalformedHeader{Reason: "Huffman table index out of range"}
		}
		if off+16 > len(seg) {
			return MalformedHeader{Reason: "DHT segment truncated"}
		}
		var bits [16]int
		total := 0
		for i := 0; i < 16; i++ {
			bits[i] = int(seg[off+i])
			total += bits[i]
		}
		off += 16
		if off+total > len(seg) {
			return MalformedHeader{Reason: "DHT segment truncated for symbol list"}
		}
		values := make([]byte, total)
		copy(values, seg[off:off+total])
		off += total

		table := common.BuildHuffmanTable(bits, values)
		if class == 0 {
			d.dcTables[index] = table
		} else {
			d.acTables[index] = table
		}
	}
	return nil
}

// parseDRI reads the 2-byte restart interval value from a 4-byte DRI
// segment.
func (d *Decoder) parseDRI() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) != 2 {
		return MalformedHeader{Reason: "DRI segment must carry exactly one u16"}
	}
	d.restartInterval = int(seg[0])<<8 | int(seg[1])
	return nil
}

// scanComponent pairs a frame component with the Huffman table indices
// selected for this scan.
type scanComponent struct {
	comp         *component
	dcTableIndex int
	acTableIndex int
}

// parseSOS reads the scan header, resets DC predictors for every
// component entering this scan, then dispatches to the baseline or
// progressive entropy decoder for the scan's entropy-coded data.
func (d *Decoder) parseSOS() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) < 1 {
		return MalformedHeader{Reason: "SOS segment too short"}
	}
	ns := int(seg[0])
	if ns < 1 || ns > 4 || len(seg) < 1+2*ns+3 {
		return MalformedHeader{Reason: "SOS segment malformed"}
	}
	scanComps := make([]scanComponent, ns)
	off := 1
	for i := 0; i < ns; i++ {
		id := int(seg[off])
		sel := seg[off+1]
		off += 2
		c, ok := d.compByID[id]
		if !ok {
			return MalformedHeader{Reason: "SOS references unknown component id"}
		}
		scanComps[i] = scanComponent{
			comp:         c,
			dcTableIndex: int(sel >> 4),
			acTableIndex: int(sel & 0x0F),
		}
		c.dcPredictor = 0
	}
	specStart := int(seg[off])
	specEnd := int(seg[off+1])
	succApprox := seg[off+2]
	succHigh := int(succApprox >> 4)
	succLow := int(succApprox & 0x0F)

	if specStart < 0 || specEnd > 63 || specStart > specEnd {
		return MalformedHeader{Reason: "invalid spectral selection range"}
	}

	if d.progressive {
		return d.decodeProgressiveScan(scanComps, specStart, specEnd, succHigh, succLow)
	}
	return d.decodeBaselineScan(scanComps)
}
