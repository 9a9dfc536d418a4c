package streaminfo

import (
	"bytes"
	"encoding/binary"
	"math"
)

func writeBox(buf *bytes.Buffer, name string, payload []byte) {
	_ = binary.Write(buf, binary.BigEndian, uint32(8+len(payload)))
	buf.WriteString(name)
	buf.Write(payload)
}

func writeFullBox(buf *bytes.Buffer, name string, version uint8, flags uint32, payload []byte) {
	inner := make([]byte, 0, 4+len(payload))
	inner = append(inner, version, byte(flags>>16), byte(flags>>8), byte(flags))
	inner = append(inner, payload...)
	writeBox(buf, name, inner)
}

func writeEbml(buf *bytes.Buffer, id uint32, payload []byte) {
	idLength := 1
	for shifted := id >> 8; shifted != 0; shifted >>= 8 {
		idLength++
	}
	for i := idLength - 1; i >= 0; i-- {
		buf.WriteByte(byte(id >> (8 * i)))
	}
	writeEbmlSize(buf, uint64(len(payload)))
	buf.Write(payload)
}

// writeEbmlSize emits the shortest size vint that is not the reserved
// all-ones pattern.
func writeEbmlSize(buf *bytes.Buffer, size uint64) {
	length := 1
	for size >= uint64(1)<<(7*length)-1 {
		length++
	}
	first := byte(0x80>>(length-1)) | byte(size>>(8*(length-1)))
	buf.WriteByte(first)
	for i := length - 2; i >= 0; i-- {
		buf.WriteByte(byte(size >> (8 * i)))
	}
}

func ebmlUint(value uint64) []byte {
	if value == 0 {
		return []byte{0}
	}
	var out []byte
	for value != 0 {
		out = append([]byte{byte(value)}, out...)
		value >>= 8
	}
	return out
}

func ebmlFloat32(value float32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, math.Float32bits(value))
	return out
}
