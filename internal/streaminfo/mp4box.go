package streaminfo

// BoxHandler is invoked once per matching box, with the reader positioned at
// the start of the box payload (after version/flags for full boxes).
type BoxHandler func(box *Box) error

// Box is one parsed ISO-BMFF box. It only lives for the duration of the
// handler call; the payload slices alias the input buffer.
type Box struct {
	Name string
	// Version is -1 unless the box was registered as a full box.
	Version int
	Flags   uint32
	// Reader is bounded to the box payload.
	Reader *Reader
	// Size is the declared box size including the header.
	Size uint64
	// Start is the absolute offset of the box header in the buffer given to
	// Parse.
	Start int

	raw          []byte
	payload      []byte
	payloadStart int
	parser       *BoxParser
}

// RawBytes returns the complete box verbatim, header included.
func (b *Box) RawBytes() []byte {
	return b.raw
}

// BoxParser walks sibling ISO-BMFF boxes with a per-call immutable handler
// map. Unregistered box types are skipped using their declared size; the
// same map applies at every nesting level reached through Children.
type BoxParser struct {
	handlers    map[string]BoxHandler
	fullBoxes   map[string]bool
	partialOkay bool
}

func NewBoxParser() *BoxParser {
	return &BoxParser{
		handlers:  map[string]BoxHandler{},
		fullBoxes: map[string]bool{},
	}
}

// Box registers a handler for a plain box type.
func (p *BoxParser) Box(name string, handler BoxHandler) *BoxParser {
	p.handlers[name] = handler
	return p
}

// FullBox registers a handler for a full box type; a 1-byte version and
// 3-byte flags are decoded before the handler runs.
func (p *BoxParser) FullBox(name string, handler BoxHandler) *BoxParser {
	p.handlers[name] = handler
	p.fullBoxes[name] = true
	return p
}

// PartialOkay tolerates a truncated trailing box, as seen when parsing a
// progressively downloaded segment. The truncated fragment is dropped
// without invoking its handler.
func (p *BoxParser) PartialOkay() *BoxParser {
	p.partialOkay = true
	return p
}

func (p *BoxParser) Parse(data []byte) error {
	return p.walk(data, 0)
}

// walk parses the run of sibling boxes covering data. absStart is the
// absolute offset of data[0] within the buffer originally given to Parse.
func (p *BoxParser) walk(data []byte, absStart int) error {
	r := NewReader(data)
	for r.HasMoreData() {
		if err := p.parseNext(r, data, absStart); err != nil {
			return err
		}
	}
	return nil
}

// stopShort consumes the rest of the reader in partial mode, or reports the
// truncation in strict mode.
func (p *BoxParser) stopShort(r *Reader, what string) error {
	if p.partialOkay {
		_ = r.Skip(r.Remaining())
		return nil
	}
	return malformedContainer("truncated box: %s", what)
}

func (p *BoxParser) parseNext(r *Reader, data []byte, absStart int) error {
	start := r.Position()
	if r.Remaining() < 8 {
		return p.stopShort(r, "incomplete 8-byte header")
	}
	size32, err := r.ReadUint32()
	if err != nil {
		return err
	}
	nameBytes, err := r.ReadBytes(4)
	if err != nil {
		return err
	}
	name := string(nameBytes)

	var size uint64
	switch size32 {
	case 0:
		// Box runs to the end of the buffer.
		size = uint64(len(data) - start)
	case 1:
		if r.Remaining() < 8 {
			return p.stopShort(r, "incomplete 64-bit largesize")
		}
		size, err = r.ReadUint64()
		if err != nil {
			return err
		}
	default:
		size = uint64(size32)
	}

	handler := p.handlers[name]
	version := -1
	var flags uint32
	if handler != nil && p.fullBoxes[name] {
		if r.Remaining() < 4 {
			return p.stopShort(r, "incomplete full box version and flags")
		}
		versionAndFlags, err := r.ReadUint32()
		if err != nil {
			return err
		}
		version = int(versionAndFlags >> 24)
		flags = versionAndFlags & 0x00FFFFFF
	}

	headerSize := uint64(r.Position() - start)
	if size < headerSize {
		return malformedContainer("box %q declares size %d smaller than its %d-byte header", name, size, headerSize)
	}
	payloadSize := size - headerSize
	if payloadSize > uint64(r.Remaining()) {
		if p.partialOkay {
			_ = r.Skip(r.Remaining())
			return nil
		}
		return malformedContainer("box %q declares size %d but only %d bytes remain", name, size, uint64(r.Remaining())+headerSize)
	}

	payload, err := r.ReadBytes(int(payloadSize))
	if err != nil {
		return err
	}
	if handler == nil {
		return nil
	}
	box := &Box{
		Name:         name,
		Version:      version,
		Flags:        flags,
		Reader:       NewReader(payload),
		Size:         size,
		Start:        absStart + start,
		raw:          data[start : start+int(size)],
		payload:      payload,
		payloadStart: absStart + start + int(headerSize),
		parser:       p,
	}
	return handler(box)
}

// Children recurses into the box payload with the parent's handler map.
func Children(box *Box) error {
	return box.parser.walk(box.payload, box.payloadStart)
}

// AllData wraps a callback receiving the box payload verbatim.
func AllData(callback func(data []byte) error) BoxHandler {
	return func(box *Box) error {
		return callback(box.payload)
	}
}
