package common

// fastBits is the width of the fast lookup table: codes of this length
// or shorter decode in one table probe; longer codes fall back to a
// sequential scan over lengths fastBits+1..16.
const fastBits = 9

// HuffmanTable is a canonical JPEG Huffman table built from a per-length
// code count histogram and a flat symbol list, as written by DHT.
type HuffmanTable struct {
	// Bits[i] is the number of codes of length i+1 (i in 0..15).
	Bits [16]int
	// Values holds the symbols in code order (shortest codes first).
	Values []byte

	// fast holds, for each possible fastBits-bit prefix, ((len<<8)|symbol)
	// for codes of length <= fastBits, or -1 if the prefix belongs to a
	// longer code.
	fast [1 << fastBits]int16

	// minCode/maxCode/valPtr support the length 10..16 fallback scan,
	// indexed by length (1-based; index 0 unused).
	minCode [17]int32
	maxCode [17]int32
	valPtr  [17]int32
}

// Build assigns canonical codes in length order and constructs both the
// fast table and the long-code fallback ranges. It never fails on a
// well-formed (Bits, Values) pair.
func (h *HuffmanTable) Build() error {
	for i := range h.fast {
		h.fast[i] = -1
	}

	code := int32(0)
	valIdx := 0
	for length := 1; length <= 16; length++ {
		count := h.Bits[length-1]
		if count == 0 {
			h.maxCode[length] = -1
			code <<= 1
			continue
		}
		h.valPtr[length] = int32(valIdx)
		h.minCode[length] = code

		if length <= fastBits {
			shift := uint(fastBits - length)
			for i := 0; i < count; i++ {
				symbol := h.Values[valIdx]
				entry := int16(length<<8) | int16(symbol)
				base := int(code) << shift
				for j := 0; j < 1<<shift; j++ {
					h.fast[base+j] = entry
				}
				valIdx++
				code++
			}
		} else {
			valIdx += count
			code += int32(count)
		}
		h.maxCode[length] = code - 1
		code <<= 1
	}
	return nil
}

// Decode reads one Huffman-coded symbol from br.
func (h *HuffmanTable) Decode(br *BitReader) (byte, error) {
	peek := br.PeekBits(fastBits)
	if entry := h.fast[peek]; entry >= 0 {
		length := uint(entry >> 8)
		br.ConsumeBits(length)
		return byte(entry & 0xFF), nil
	}

	peek16 := br.PeekBits(16)
	for length := fastBits + 1; length <= 16; length++ {
		if h.maxCode[length] < 0 {
			continue
		}
		code := int32(peek16 >> uint(16-length))
		if code <= h.maxCode[length] {
			idx := h.valPtr[length] + code - h.minCode[length]
			if idx < 0 || int(idx) >= len(h.Values) {
				break
			}
			br.ConsumeBits(uint(length))
			return h.Values[idx], nil
		}
	}
	return 0, ErrHuffmanDecode
}

// ReceiveExtend reads ssss magnitude bits and sign-extends them per the
// standard JPEG RECEIVE+EXTEND procedure used for both DC differences and
// AC coefficient magnitudes.
func ReceiveExtend(br *BitReader, ssss int) (int, error) {
	if ssss == 0 {
		return 0, nil
	}
	bits, err := br.ReadBits(uint(ssss))
	if err != nil {
		return 0, err
	}
	v := int(bits)
	if v < 1<<(ssss-1) {
		v += (-1 << uint(ssss)) + 1
	}
	return v, nil
}

// BuildHuffmanTable is a convenience constructor for a table whose Build
// is known to succeed.
func BuildHuffmanTable(bits [16]int, values []byte) *HuffmanTable {
	t := &HuffmanTable{Bits: bits, Values: values}
	_ = t.Build()
	return t
}
