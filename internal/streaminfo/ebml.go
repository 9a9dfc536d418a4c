package streaminfo

import (
	"encoding/binary"
	"math"
)

// unknownEbmlSize marks an element whose size vint was all ones. Such an
// element runs to the end of its parent and is only legal for Segment and
// Cluster.
const unknownEbmlSize = ^uint64(0)

// EbmlParser reads a run of sibling EBML elements over a fixed buffer.
// Traversal is strictly sequential; there is no random access.
type EbmlParser struct {
	reader *Reader
	data   []byte
	// start is the absolute offset of data[0] in the top-level buffer, kept
	// so element offsets can feed byte-range arithmetic.
	start int
}

func NewEbmlParser(data []byte) *EbmlParser {
	return &EbmlParser{reader: NewReader(data), data: data}
}

func (p *EbmlParser) HasMoreData() bool {
	return p.reader.HasMoreData()
}

// ParseElement reads the next element header and returns a handle over its
// payload.
func (p *EbmlParser) ParseElement() (*EbmlElement, error) {
	id, err := p.parseID()
	if err != nil {
		return nil, err
	}
	size, err := p.parseSize()
	if err != nil {
		return nil, err
	}
	if size == unknownEbmlSize {
		if id != webmIDSegment && id != webmIDCluster {
			return nil, malformedContainer("EBML element 0x%X may not have an unknown size", id)
		}
		size = uint64(p.reader.Remaining())
	}
	if size > uint64(p.reader.Remaining()) {
		return nil, malformedContainer("EBML element 0x%X declares %d payload bytes but only %d remain", id, size, p.reader.Remaining())
	}
	offset := p.start + p.reader.Position()
	payload, err := p.reader.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	return &EbmlElement{ID: id, data: payload, offset: offset}, nil
}

// parseID decodes the element ID, retaining the length-marker bits so the
// value matches the documented Matroska IDs (e.g. Segment = 0x18538067).
func (p *EbmlParser) parseID() (uint32, error) {
	first, err := p.reader.ReadUint8()
	if err != nil {
		return 0, err
	}
	length := ebmlVintLength(first)
	if length == 0 || length > 4 {
		return 0, malformedContainer("invalid EBML ID width marker 0x%02X", first)
	}
	value := uint32(first)
	for i := 1; i < length; i++ {
		b, err := p.reader.ReadUint8()
		if err != nil {
			return 0, err
		}
		value = value<<8 | uint32(b)
	}
	return value, nil
}

// parseSize decodes the element size, masking out the marker bits. An
// all-ones value of the matching width decodes to unknownEbmlSize.
func (p *EbmlParser) parseSize() (uint64, error) {
	first, err := p.reader.ReadUint8()
	if err != nil {
		return 0, err
	}
	length := ebmlVintLength(first)
	if length == 0 {
		return 0, malformedContainer("invalid EBML size width marker 0x%02X", first)
	}
	value := uint64(first & (0xFF >> length))
	for i := 1; i < length; i++ {
		b, err := p.reader.ReadUint8()
		if err != nil {
			return 0, err
		}
		value = value<<8 | uint64(b)
	}
	if value == uint64(1)<<(7*length)-1 {
		return unknownEbmlSize, nil
	}
	return value, nil
}

func ebmlVintLength(first byte) int {
	for i := 0; i < 8; i++ {
		if first&(1<<(7-uint(i))) != 0 {
			return i + 1
		}
	}
	return 0
}

// EbmlElement is a handle over one element's payload.
type EbmlElement struct {
	ID     uint32
	data   []byte
	offset int
}

// GetOffset returns the absolute offset of the element payload in the
// top-level buffer.
func (e *EbmlElement) GetOffset() int {
	return e.offset
}

// CreateParser returns a parser scoped to this element's children.
func (e *EbmlElement) CreateParser() *EbmlParser {
	return &EbmlParser{reader: NewReader(e.data), data: e.data, start: e.offset}
}

// GetUint decodes the payload as a big-endian unsigned integer of up to 8
// bytes.
func (e *EbmlElement) GetUint() (uint64, error) {
	if len(e.data) > 8 {
		return 0, malformedContainer("EBML element 0x%X has a %d-byte integer payload, at most 8 supported", e.ID, len(e.data))
	}
	var value uint64
	for _, b := range e.data {
		value = value<<8 | uint64(b)
	}
	return value, nil
}

// GetFloat decodes the payload as an IEEE-754 float; only 4- and 8-byte
// payloads are valid.
func (e *EbmlElement) GetFloat() (float64, error) {
	switch len(e.data) {
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(e.data))), nil
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(e.data)), nil
	default:
		return 0, malformedContainer("EBML element 0x%X has a %d-byte float payload, must be 4 or 8", e.ID, len(e.data))
	}
}
