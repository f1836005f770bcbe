package decoder

import "github.com/cocosip/jpegdecode/jpeg/common"

// blockRef names one data unit to visit during a progressive scan pass,
// used to express both interleaved (DC) and non-interleaved (AC) scan
// iteration orders with the same restart-interval bookkeeping.
type blockRef struct {
	comp *component
	x, y int
}

// buildScanUnits returns the ordered sequence of "MCU" groups for this
// scan: for an interleaved scan (more than one component) each group is
// one full MCU's worth of blocks across every scan component; for a
// non-interleaved scan (exactly one component, as required for any AC
// scan) each group is a single block, visited in the component's own
// raster order.
func (d *Decoder) buildScanUnits(scanComps []scanComponent) [][]blockRef {
	if len(scanComps) > 1 {
		units := make([][]blockRef, d.mcusPerLine*d.mcusPerColumn)
		idx := 0
		for my := 0; my < d.mcusPerColumn; my++ {
			for mx := 0; mx < d.mcusPerLine; mx++ {
				var refs []blockRef
				for i := range scanComps {
					c := scanComps[i].comp
					for by := 0; by < c.v; by++ {
						for bx := 0; bx < c.h; bx++ {
							refs = append(refs, blockRef{comp: c, x: mx*c.h + bx, y: my*c.v + by})
						}
					}
				}
				units[idx] = refs
				idx++
			}
		}
		return units
	}

	c := scanComps[0].comp
	units := make([][]blockRef, c.blocksPerLine*c.blocksPerColumn)
	idx := 0
	for by := 0; by < c.blocksPerColumn; by++ {
		for bx := 0; bx < c.blocksPerLine; bx++ {
			units[idx] = []blockRef{{comp: c, x: bx, y: by}}
			idx++
		}
	}
	return units
}

// decodeProgressiveScan dispatches to the DC-first, DC-refinement,
// AC-first, or AC-refinement decode loop implied by (specStart, specEnd,
// succHigh), sharing restart-interval handling across all four.
func (d *Decoder) decodeProgressiveScan(scanComps []scanComponent, specStart, specEnd, succHigh, succLow int) error {
	br := common.NewBitReader(d.r.Data(), d.r.Pos())
	units := d.buildScanUnits(scanComps)
	d.eobRun = 0

	dcScan := specStart == 0 && specEnd == 0
	mcusSinceRestart := 0
	expectedRST := 0

	// tableFor looks up the DC/AC tables selected for a scan component in
	// the interleaved DC case; the non-interleaved case has exactly one.
	tableFor := func(comp *component) (dc *common.HuffmanTable, ac *common.HuffmanTable) {
		for i := range scanComps {
			if scanComps[i].comp == comp {
				return d.dcTables[scanComps[i].dcTableIndex], d.acTables[scanComps[i].acTableIndex]
			}
		}
		return nil, nil
	}

	restartUnitCount := d.restartInterval
	for ui, unit := range units {
		for _, ref := range unit {
			block := ref.comp.blockAt(ref.x, ref.y)
			dcTable, acTable := tableFor(ref.comp)

			var err error
			switch {
			case dcScan && succHigh == 0:
				err = d.decodeDCFirst(br, ref.comp, dcTable, block, succLow)
			case dcScan && succHigh != 0:
				err = d.decodeDCRefine(br, block, succLow)
			case !dcScan && succHigh == 0:
				err = d.decodeACFirst(br, acTable, block, specStart, specEnd, succLow)
			default:
				err = d.decodeACRefine(br, acTable, block, specStart, specEnd, succLow)
			}
			if err != nil {
				return mapBitError(err, expectedRST)
			}
		}

		mcusSinceRestart++
		if restartUnitCount > 0 && mcusSinceRestart == restartUnitCount && ui != len(units)-1 {
			br.AlignToByte()
			if err := br.ExpectRestart(expectedRST); err != nil {
				return mapBitError(err, expectedRST)
			}
			expectedRST = (expectedRST + 1) & 7
			mcusSinceRestart = 0
			d.eobRun = 0
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

func (d *Decoder) decodeDCFirst(br *common.BitReader, comp *component, dcTable *common.HuffmanTable, block *[64]int32, succLow int) error {
	if dcTable == nil {
		return MalformedHeader{Reason: "DC scan references an uninstalled Huffman table"}
	}
	s, err := dcTable.Decode(br)
	if err != nil {
		return err
	}
	diff, err := common.ReceiveExtend(br, int(s))
	if err != nil {
		return err
	}
	comp.dcPredictor += int32(diff)
	block[0] = comp.dcPredictor << uint(succLow)
	return nil
}

func (d *Decoder) decodeDCRefine(br *common.BitReader, block *[64]int32, succLow int) error {
	bit, err := br.ReadBit()
	if err != nil {
		return err
	}
	if bit != 0 {
		block[0] |= 1 << uint(succLow)
	}
	return nil
}

// decodeACFirst decodes one block's AC coefficients for the initial AC
// scan of a spectral band, honoring an end-of-band run that can span
// multiple blocks.
func (d *Decoder) decodeACFirst(br *common.BitReader, acTable *common.HuffmanTable, block *[64]int32, specStart, specEnd, succLow int) error {
	if acTable == nil {
		return MalformedHeader{Reason: "AC scan references an uninstalled Huffman table"}
	}
	if d.eobRun > 0 {
		d.eobRun--
		return nil
	}

	k := specStart
	for k <= specEnd {
		rs, err := acTable.Decode(br)
		if err != nil {
			return err
		}
		r := int(rs >> 4)
		ssss := int(rs & 0x0F)
		if ssss == 0 {
			if r < 15 {
				extra, err := br.ReadBits(uint(r))
				if err != nil {
					return err
				}
				d.eobRun = (1 << uint(r)) + int(extra) - 1
				return nil
			}
			k += 16
			continue
		}
		k += r
		if k > specEnd {
			return MalformedHeader{Reason: "AC run exceeds spectral band"}
		}
		v, err := common.ReceiveExtend(br, ssss)
		if err != nil {
			return err
		}
		block[common.ZigZag[k]] = int32(v) << uint(succLow)
		k++
	}
	return nil
}

// decodeACRefine applies one refinement pass over a block's spectral
// band: every already-nonzero coefficient gets a correction bit, and
// zero-runs (explicit or via an end-of-band run) may place one new
// coefficient at ±(1<<succLow) when the run is exhausted on a zero slot.
func (d *Decoder) decodeACRefine(br *common.BitReader, acTable *common.HuffmanTable, block *[64]int32, specStart, specEnd, succLow int) error {
	if acTable == nil {
		return MalformedHeader{Reason: "AC scan references an uninstalled Huffman table"}
	}
	p1 := int32(1) << uint(succLow)
	m1 := int32(-1) << uint(succLow)

	k := specStart
	if d.eobRun == 0 {
		for k <= specEnd {
			rs, err := acTable.Decode(br)
			if err != nil {
				return err
			}
			r := int(rs >> 4)
			ssss := int(rs & 0x0F)
			var newCoef int32
			if ssss == 0 {
				if r != 15 {
					extra := 0
					if r > 0 {
						bits, err := br.ReadBits(uint(r))
						if err != nil {
							return err
						}
						extra = int(bits)
					}
					d.eobRun = (1 << uint(r)) - 1 + extra
					break
				}
				// r == 15: ZRL, absorb 16 zero-history slots below.
			} else {
				bit, err := br.ReadBit()
				if err != nil {
					return err
				}
				if bit != 0 {
					newCoef = p1
				} else {
					newCoef = m1
				}
			}

			for k <= specEnd {
				idx := common.ZigZag[k]
				if block[idx] != 0 {
					bit, err := br.ReadBit()
					if err != nil {
						return err
					}
					if bit != 0 && block[idx]&p1 == 0 {
						if block[idx] >= 0 {
							block[idx] += p1
						} else {
							block[idx] += m1
						}
					}
					k++
					continue
				}
				if r == 0 {
					if newCoef != 0 {
						block[idx] = newCoef
					}
					k++
					break
				}
				r--
				k++
			}
		}
	}

	if d.eobRun > 0 {
		for ; k <= specEnd; k++ {
			idx := common.ZigZag[k]
			if block[idx] != 0 {
				bit, err := br.ReadBit()
				if err != nil {
					return err
				}
				if bit != 0 && block[idx]&p1 == 0 {
					if block[idx] >= 0 {
						block[idx] += p1
					} else {
						block[idx] += m1
					}
				}
			}
		}
		d.eobRun--
	}
	return nil
}
