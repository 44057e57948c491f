// internal/status/encode.go
package status

import "encoding/binary"

// Encode converts a Snapshot into a full display status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDisplay)

	regs[SlotStageCode] = s.Stage

	// Slots 1..7 are RESERVED → left as zero

	for i, line := range s.Lines {
		start := SlotLinesStart + i*SlotsPerLine
		copy(regs[start:start+SlotsPerLine], EncodeLine(line))
	}

	return regs
}

// EncodeLine packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeLine(line string) []uint16 {
	out := make([]uint16, SlotsPerLine)

	b := []byte(line)
	if len(b) > LineMaxChars {
		b = b[:LineMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < LineMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

// DecodeLine is the inverse of EncodeLine; trailing NULs are dropped.
func DecodeLine(regs []uint16) string {
	b := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		b = append(b, byte(r>>8), byte(r))
	}
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}

// Bytes lays registers out on the wire, high byte first.
func Bytes(regs []uint16) []byte {
	out := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		out = binary.BigEndian.AppendUint16(out, r)
	}
	return out
}
