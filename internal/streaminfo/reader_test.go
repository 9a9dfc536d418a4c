package streaminfo

import (
	"bytes"
	"testing"
)

func TestReaderSequentialReads(t *testing.T) {
	data := []byte{
		0x12,
		0x34, 0x56,
		0x01, 0x02, 0x03, 0x04,
		0xCD, 0xAB,
		0x78, 0x56, 0x34, 0x12,
		'p', 's', 's', 'h',
	}
	r := NewReader(data)

	if got, _ := r.ReadUint8(); got != 0x12 {
		t.Fatalf("ReadUint8=%#x, want 0x12", got)
	}
	if got, _ := r.ReadUint16(); got != 0x3456 {
		t.Fatalf("ReadUint16=%#x, want 0x3456", got)
	}
	if got, _ := r.ReadUint32(); got != 0x01020304 {
		t.Fatalf("ReadUint32=%#x, want 0x01020304", got)
	}
	if got, _ := r.ReadUint16LE(); got != 0xABCD {
		t.Fatalf("ReadUint16LE=%#x, want 0xabcd", got)
	}
	if got, _ := r.ReadUint32LE(); got != 0x12345678 {
		t.Fatalf("ReadUint32LE=%#x, want 0x12345678", got)
	}
	name, err := r.ReadBytes(4)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(name, []byte("pssh")) {
		t.Fatalf("ReadBytes=%q, want %q", name, "pssh")
	}
	if r.HasMoreData() {
		t.Fatalf("HasMoreData=true at end of buffer")
	}
}

func TestReaderOverrunIsMalformedContainer(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.ReadUint32(); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("ReadUint32 err=%v, want MALFORMED_CONTAINER", err)
	}
	// A failed read must not advance the position.
	if r.Position() != 0 {
		t.Fatalf("Position=%d after failed read, want 0", r.Position())
	}
	if err := r.Skip(3); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("Skip err=%v, want MALFORMED_CONTAINER", err)
	}
	if _, err := r.ReadBytes(-1); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("negative ReadBytes err=%v, want MALFORMED_CONTAINER", err)
	}
}

func TestReaderSkipAndPosition(t *testing.T) {
	r := NewReader(make([]byte, 10))
	if err := r.Skip(4); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if r.Position() != 4 || r.Remaining() != 6 {
		t.Fatalf("Position=%d Remaining=%d, want 4 and 6", r.Position(), r.Remaining())
	}
	if err := r.Seek(10); err != nil {
		t.Fatalf("Seek to end: %v", err)
	}
	if r.HasMoreData() {
		t.Fatalf("HasMoreData=true after seeking to the end")
	}
	if err := r.Seek(11); !IsCode(err, CodeMalformedContainer) {
		t.Fatalf("Seek past end err=%v, want MALFORMED_CONTAINER", err)
	}
}
