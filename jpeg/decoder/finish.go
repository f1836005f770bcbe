package decoder

// finish runs IDCT+dequantization over every component's coefficient
// plane, upsamples each component to the frame's full MCU-grid
// resolution, then color-converts row by row into the caller's chosen
// output layout, cropped to the frame's true width and height.
func (d *Decoder) finish() ([]byte, error) {
	if len(d.components) == 0 {
		return nil, MalformedHeader{Reason: "no frame header was ever parsed"}
	}

	for i := range d.components {
		c := &d.components[i]
		qt := d.quantTables[c.quantTableIndex]
		if qt == nil {
			return nil, MalformedHeader{Reason: "component references an uninstalled quant table"}
		}
		for by := 0; by < c.blocksPerColumn; by++ {
			for bx := 0; bx < c.blocksPerLine; bx++ {
				block := c.blockAt(bx, by)
				offset := (by*8)*c.samplesWidth + bx*8
				d.idct(block, qt, c.plane, offset, c.samplesWidth)
			}
		}
	}

	fullW := d.mcusPerLine * 8 * d.hMax
	fullH := d.mcusPerColumn * 8 * d.vMax

	upsampled := make([][]byte, len(d.components))
	for i := range d.components {
		c := &d.components[i]
		if c.samplesWidth == fullW && c.samplesHeight == fullH {
			upsampled[i] = c.plane
			continue
		}
		dst := make([]byte, fullW*fullH)
		c.upsample(c.plane, c.samplesWidth, c.samplesHeight, dst, fullW, fullH)
		upsampled[i] = dst
	}

	d.colorCvt = d.selectColorConvert()
	bpp := d.bytesPerPixel()
	out := make([]byte, d.width*d.height*bpp)

	yPlane := upsampled[0]
	var cbPlane, crPlane []byte
	if len(d.components) >= 3 {
		cbPlane = upsampled[1]
		crPlane = upsampled[2]
	} else {
		// A single-component (grayscale) source has no chroma; neutral
		// 128 chroma makes the YCbCr->RGB transform collapse to R=G=B=Y
		// so RGB/RGBA/RGBX/YCbCr output still work without a special case.
		neutral := make([]byte, d.width)
		for i := range neutral {
			neutral[i] = 128
		}
		cbPlane, crPlane = neutral, neutral
	}

	for row := 0; row < d.height; row++ {
		yRow := yPlane[row*fullW : row*fullW+d.width]
		var cbRow, crRow []byte
		if len(d.components) >= 3 {
			cbRow = cbPlane[row*fullW : row*fullW+d.width]
			crRow = crPlane[row*fullW : row*fullW+d.width]
		} else {
			cbRow, crRow = cbPlane, crPlane
		}
		dstRow := out[row*d.width*bpp : (row+1)*d.width*bpp]
		d.colorCvt(yRow, cbRow, crRow, dstRow, d.width)
	}

	return out, nil
}
