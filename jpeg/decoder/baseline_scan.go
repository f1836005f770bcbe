package decoder

import (
	"errors"

	"github.com/cocosip/jpegdecode/jpeg/common"
)

// mapBitError translates the low-level common sentinels raised by the
// bit reader and Huffman table into this package's public error kinds.
func mapBitError(err error, restartExpected int) error {
	switch {
	case errors.Is(err, common.ErrTruncated):
		return Truncated{}
	case errors.Is(err, common.ErrHuffmanDecode):
		return InvalidHuffmanCode{}
	case errors.Is(err, common.ErrRestartMismatch):
		return RestartMismatch{Expected: restartExpected}
	default:
		return err
	}
}

// decodeBaselineScan walks the MCU grid in raster order, decoding each
// component's h*v baseline data units (DC then 63 AC coefficients) per
// MCU, resynchronizing at restart-interval boundaries.
func (d *Decoder) decodeBaselineScan(scanComps []scanComponent) error {
	br := common.NewBitReader(d.r.Data(), d.r.Pos())
	totalMCUs := d.mcusPerLine * d.mcusPerColumn
	mcusSinceRestart := 0
	expectedRST := 0

	for mcuIndex := 0; mcuIndex < totalMCUs; mcuIndex++ {
		my := mcuIndex / d.mcusPerLine
		mx := mcuIndex % d.mcusPerLine

		for i := range scanComps {
			sc := &scanComps[i]
			c := sc.comp
			for by := 0; by < c.v; by++ {
				for bx := 0; bx < c.h; bx++ {
					blockX := mx*c.h + bx
					blockY := my*c.v + by
					block := c.blockAt(blockX, blockY)
					*block = [64]int32{}
					if err := d.decodeBaselineBlock(br, sc, block); err != nil {
						return mapBitError(err, expectedRST)
					}
				}
			}
		}

		mcusSinceRestart++
		if d.restartInterval > 0 && mcusSinceRestart == d.restartInterval && mcuIndex != totalMCUs-1 {
			br.AlignToByte()
			if err := br.ExpectRestart(expectedRST); err != nil {
				return mapBitError(err, expectedRST)
			}
			expectedRST = (expectedRST + 1) & 7
			mcusSinceRestart = 0
			for i := range scanComps {
				scanComps[i].comp.dcPredictor = 0
			}
			br.Reset()
		}
	}

	br.AlignToByte()
	d.r.Seek(br.Pos())
	return nil
}

// decodeBaselineBlock decodes one 8x8 data unit's DC and AC coefficients
// for a single scan component, writing into block in natural (row-major)
// order.
func (d *Decoder) decodeBaselineBlock(br *common.BitReader, sc *scanComponent, block *[64]int32) error {
	dcTable := d.dcTables[sc.dcTableIndex]
	acTable := d.acTables[sc.acTableIndex]
	if dcTable == nil || acTable == nil {
		return MalformedHeader{Reason: "scan references an uninstalled Huffman table"}
	}

	s, err := dcTable.Decode(br)
	if err != nil {
		return err
	}
	diff, err := common.ReceiveExtend(br, int(s))
	if err != nil {
		return err
	}
	sc.comp.dcPredictor += int32(diff)
	block[0] = sc.comp.dcPredictor

	k := 1
	for k <= 63 {
		rs, err := acTable.Decode(br)
		if err != nil {
			return err
		}
		r := int(rs >> 4)
		ssss := int(rs & 0x0F)
		if ssss == 0 {
			if r == 15 {
				k += 16
				continue
			}
			break // r == 0: EOB, fill remaining with zero (already zero)
		}
		k += r
		if k > 63 {
			return MalformedHeader{Reason: "AC run exceeds block length"}
		}
		v, err := common.ReceiveExtend(br, ssss)
		if err != nil {
			return err
		}
		block[common.ZigZag[k]] = int32(v)
		k++
	}
	return nil
}
