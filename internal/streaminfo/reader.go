package streaminfo

import "encoding/binary"

// Reader is a bounds-checked sequential reader over a fixed buffer. Every
// read validates the remaining length first; a short buffer surfaces as a
// MalformedContainer error rather than a panic or an out-of-bounds read.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) Position() int {
	return r.pos
}

func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) HasMoreData() bool {
	return r.pos < len(r.data)
}

func (r *Reader) require(n int) error {
	if n < 0 || r.Remaining() < n {
		return malformedContainer("read of %d bytes at offset %d exceeds buffer of %d bytes", n, r.pos, len(r.data))
	}
	return nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	value := r.data[r.pos]
	r.pos++
	return value, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	value := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return value, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	value := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return value, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	value := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return value, nil
}

func (r *Reader) ReadUint16LE() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	value := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return value, nil
}

func (r *Reader) ReadUint32LE() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	value := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return value, nil
}

// ReadBytes returns a sub-slice of the underlying buffer; callers must not
// mutate it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	value := r.data[r.pos : r.pos+n]
	r.pos += n
	return value, nil
}

func (r *Reader) Skip(n int) error {
	if err := r.require(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Seek moves to an absolute offset within the buffer.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return malformedContainer("seek to offset %d outside buffer of %d bytes", pos, len(r.data))
	}
	r.pos = pos
	return nil
}
