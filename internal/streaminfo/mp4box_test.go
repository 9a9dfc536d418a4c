package streaminfo

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestBoxParserVisitsNestedBoxes(t *testing.T) {
	var moov bytes.Buffer
	writeFullBox(&moov, "mvhd", 0, 0, make([]byte, 96))
	writeBox(&moov, "trak", nil)

	var file bytes.Buffer
	writeBox(&file, "ftyp", []byte("isom"))
	writeBox(&file, "moov", moov.Bytes())

	var visited []string
	record := func(box *Box) error {
		visited = append(visited, box.Name)
		return nil
	}
	err := NewBoxParser().
		Box("moov", Children).
		FullBox("mvhd", record).
		Box("trak", record).
		Parse(file.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"mvhd", "trak"}
	if len(visited) != len(want) || visited[0] != want[0] || visited[1] != want[1] {
		t.Fatalf("visited=%v, want %v", visited, want)
	}
}

func TestBoxParserFullBoxVersionAndFlags(t *testing.T) {
	var file bytes.Buffer
	writeFullBox(&file, "pssh", 1, 0x000001, nil)

	var got *Box
	err := NewBoxParser().
		FullBox("pssh", func(box *Box) error {
			got = box
			return nil
		}).
		Parse(file.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Version != 1 || got.Flags != 1 {
		t.Fatalf("version=%d flags=%#x, want 1 and 0x1", got.Version, got.Flags)
	}
}

func TestBoxParserPlainBoxHasNoVersion(t *testing.T) {
	var file bytes.Buffer
	writeBox(&file, "mdat", []byte{0xDE, 0xAD})

	err := NewBoxParser().
		Box("mdat", func(box *Box) error {
			if box.Version != -1 {
				t.Fatalf("version=%d for plain box, want -1", box.Version)
			}
			if box.Reader.Len() != 2 {
				t.Fatalf("payload length=%d, want 2", box.Reader.Len())
			}
			return nil
		}).
		Parse(file.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func TestBoxParserSizeZeroRunsToEnd(t *testing.T) {
	var file bytes.Buffer
	writeBox(&file, "ftyp", []byte("isom"))

	payload := []byte{1, 2, 3, 4, 5}
	_ = binary.Write(&file, binary.BigEndian, uint32(0))
	file.WriteString("mdat")
	file.Write(payload)

	var got []byte
	err := NewBoxParser().
		Box("mdat", AllData(func(data []byte) error {
			got = data
			return nil
		})).
		Parse(file.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload=%v, want %v", got, payload)
	}
}

func TestBoxParserLargesize(t *testing.T) {
	payload := []byte("hello")
	var file bytes.Buffer
	_ = binary.Write(&file, binary.BigEndian, uint32(1))
	file.WriteString("mdat")
	_ = binary.Write(&file, binary.BigEndian, uint64(16+len(payload)))
	file.Write(payload)

	var got []byte
	err := NewBoxParser().
		Box("mdat", AllData(func(data []byte) error {
			got = data
			return nil
		})).
		Parse(file.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload=%q, want %q", got, payload)
	}
}

func TestBoxParserTruncatedPayloadStrict(t *testing.T) {
	var file bytes.Buffer
	writeBox(&file, "moov", make([]byte, 16))
	truncated := file.Bytes()[:file.Len()-4]

	err := NewBoxParser().Box("moov", Children).Parse(truncated)
	if !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestBoxParserTruncatedPayloadPartial(t *testing.T) {
	var file bytes.Buffer
	writeBox(&file, "styp", []byte("msdh"))
	complete := file.Len()
	writeBox(&file, "mdat", make([]byte, 32))
	truncated := file.Bytes()[:complete+10]

	visited := map[string]int{}
	record := func(box *Box) error {
		visited[box.Name]++
		return nil
	}
	err := NewBoxParser().
		Box("styp", record).
		Box("mdat", record).
		PartialOkay().
		Parse(truncated)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if visited["styp"] != 1 {
		t.Fatalf("styp visits=%d, want 1", visited["styp"])
	}
	// The truncated trailing box is dropped, not surfaced.
	if visited["mdat"] != 0 {
		t.Fatalf("mdat visits=%d, want 0", visited["mdat"])
	}
}

func TestBoxParserTruncatedHeaderPartial(t *testing.T) {
	err := NewBoxParser().PartialOkay().Parse([]byte{0x00, 0x00, 0x01})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := NewBoxParser().Parse([]byte{0x00, 0x00, 0x01}); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("strict err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestBoxParserSizeSmallerThanHeader(t *testing.T) {
	var file bytes.Buffer
	_ = binary.Write(&file, binary.BigEndian, uint32(4))
	file.WriteString("free")
	file.Write(make([]byte, 8))

	err := NewBoxParser().Parse(file.Bytes())
	if !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestBoxParserUnregisteredBoxesSkipped(t *testing.T) {
	var file bytes.Buffer
	writeBox(&file, "free", make([]byte, 12))
	writeBox(&file, "moov", nil)

	calls := 0
	err := NewBoxParser().
		Box("moov", func(box *Box) error {
			calls++
			return nil
		}).
		Parse(file.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if calls != 1 {
		t.Fatalf("moov visits=%d, want 1", calls)
	}
}

func TestBoxRawBytesIncludesHeader(t *testing.T) {
	var file bytes.Buffer
	writeFullBox(&file, "pssh", 0, 0, make([]byte, 20))

	err := NewBoxParser().
		FullBox("pssh", func(box *Box) error {
			if !bytes.Equal(box.RawBytes(), file.Bytes()) {
				t.Fatalf("RawBytes differs from the encoded box")
			}
			if box.Start != 0 {
				t.Fatalf("Start=%d, want 0", box.Start)
			}
			return nil
		}).
		Parse(file.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
}
