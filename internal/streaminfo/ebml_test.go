package streaminfo

import (
	"bytes"
	"testing"
)

func TestEbmlParserSiblingElements(t *testing.T) {
	var buf bytes.Buffer
	writeEbml(&buf, webmIDCueTime, ebmlUint(1000))
	writeEbml(&buf, webmIDCueTrackPositions, nil)

	parser := NewEbmlParser(buf.Bytes())

	first, err := parser.ParseElement()
	if err != nil {
		t.Fatalf("ParseElement: %v", err)
	}
	if first.ID != webmIDCueTime {
		t.Fatalf("ID=%#x, want CueTime", first.ID)
	}
	if value, _ := first.GetUint(); value != 1000 {
		t.Fatalf("GetUint=%d, want 1000", value)
	}

	second, err := parser.ParseElement()
	if err != nil {
		t.Fatalf("ParseElement: %v", err)
	}
	if second.ID != webmIDCueTrackPositions {
		t.Fatalf("ID=%#x, want CueTrackPositions", second.ID)
	}
	if parser.HasMoreData() {
		t.Fatalf("HasMoreData=true after last element")
	}
}

func TestEbmlParserFourByteID(t *testing.T) {
	var buf bytes.Buffer
	writeEbml(&buf, webmIDEBML, []byte{0x42})

	element, err := NewEbmlParser(buf.Bytes()).ParseElement()
	if err != nil {
		t.Fatalf("ParseElement: %v", err)
	}
	// The ID keeps its length-marker bits.
	if element.ID != webmIDEBML {
		t.Fatalf("ID=%#x, want %#x", element.ID, uint32(webmIDEBML))
	}
}

func TestEbmlParserInvalidIDMarker(t *testing.T) {
	// A zero first byte would need a 9-byte ID, beyond the 4-byte limit.
	if _, err := NewEbmlParser([]byte{0x00, 0x81}).ParseElement(); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("err=%v, want MALFORMED_CONTAINER", err)
	}
	// 0x08 marks a 5-byte ID, also out of range.
	if _, err := NewEbmlParser([]byte{0x08, 0, 0, 0, 0, 0x81}).ParseElement(); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestEbmlParserUnknownSizeSegment(t *testing.T) {
	payload := []byte{0x9F, 0x42, 0x86}
	var buf bytes.Buffer
	buf.Write([]byte{0x18, 0x53, 0x80, 0x67}) // Segment
	buf.WriteByte(0xFF)                       // unknown size
	buf.Write(payload)

	element, err := NewEbmlParser(buf.Bytes()).ParseElement()
	if err != nil {
		t.Fatalf("ParseElement: %v", err)
	}
	if element.ID != webmIDSegment {
		t.Fatalf("ID=%#x, want Segment", element.ID)
	}
	// The unknown size resolves to the rest of the buffer.
	if len(element.data) != len(payload) {
		t.Fatalf("payload length=%d, want %d", len(element.data), len(payload))
	}
}

func TestEbmlParserUnknownSizeRejectedElsewhere(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x15, 0x49, 0xA9, 0x66}) // Info
	buf.WriteByte(0xFF)

	if _, err := NewEbmlParser(buf.Bytes()).ParseElement(); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestEbmlParserOversizedElement(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0xBB) // CuePoint
	buf.WriteByte(0x85) // declares 5 bytes
	buf.Write([]byte{1, 2})

	if _, err := NewEbmlParser(buf.Bytes()).ParseElement(); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestEbmlElementOffsets(t *testing.T) {
	var inner bytes.Buffer
	writeEbml(&inner, webmIDCueTime, ebmlUint(7))

	var buf bytes.Buffer
	writeEbml(&buf, webmIDCues, inner.Bytes())

	cues, err := NewEbmlParser(buf.Bytes()).ParseElement()
	if err != nil {
		t.Fatalf("ParseElement: %v", err)
	}
	// 4-byte Cues ID plus 1-byte size vint.
	if cues.GetOffset() != 5 {
		t.Fatalf("Cues offset=%d, want 5", cues.GetOffset())
	}
	child, err := cues.CreateParser().ParseElement()
	if err != nil {
		t.Fatalf("ParseElement: %v", err)
	}
	// Child offsets are absolute in the top-level buffer.
	if child.GetOffset() != 5+2 {
		t.Fatalf("CueTime offset=%d, want 7", child.GetOffset())
	}
}

func TestEbmlElementGetUint(t *testing.T) {
	cases := []struct {
		payload []byte
		want    uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x2A}, 42},
		{[]byte{0x0F, 0x42, 0x40}, 1000000},
		{[]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, 0x0102030405060708},
	}
	for _, tc := range cases {
		element := &EbmlElement{ID: webmIDTimecodeScale, data: tc.payload}
		got, err := element.GetUint()
		if err != nil {
			t.Fatalf("GetUint(%v): %v", tc.payload, err)
		}
		if got != tc.want {
			t.Fatalf("GetUint(%v)=%d, want %d", tc.payload, got, tc.want)
		}
	}

	nineBytes := &EbmlElement{ID: webmIDTimecodeScale, data: make([]byte, 9)}
	if _, err := nineBytes.GetUint(); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("9-byte GetUint err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestEbmlElementGetFloat(t *testing.T) {
	four := &EbmlElement{ID: webmIDDuration, data: ebmlFloat32(5000)}
	if got, err := four.GetFloat(); err != nil || got != 5000 {
		t.Fatalf("GetFloat(4 bytes)=%v, %v, want 5000", got, err)
	}

	eight := &EbmlElement{ID: webmIDDuration, data: []byte{0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18}}
	got, err := eight.GetFloat()
	if err != nil {
		t.Fatalf("GetFloat(8 bytes): %v", err)
	}
	if got < 3.14159 || got > 3.1416 {
		t.Fatalf("GetFloat(8 bytes)=%v, want pi", got)
	}

	three := &EbmlElement{ID: webmIDDuration, data: make([]byte, 3)}
	if _, err := three.GetFloat(); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("3-byte GetFloat err=%v, want MALFORMED_CONTAINER", err)
	}
}
