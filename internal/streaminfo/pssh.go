package streaminfo

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Well-known protection system IDs, lowercase hex without separators.
const (
	WidevineSystemID  = "edef8ba979d64acea3c827dcd51d21ed"
	PlayReadySystemID = "9a04f07998404286ab92e65be0885f95"
	CommonSystemID    = "1077efecc0b24d02ace33c1e52e2fb4b"
)

// Pssh holds every Protection System Specific Header box found in an init
// segment, in the order encountered.
type Pssh struct {
	// SystemIDs has one entry per stored box.
	SystemIDs []string
	// Versions holds each stored box's version, parallel to SystemIDs.
	Versions []int
	// CencKeyIDs aggregates the key IDs of version>0 boxes, lowercase hex.
	CencKeyIDs []string
	// Boxes are the full pssh boxes verbatim, parallel to SystemIDs.
	Boxes [][]byte
}

// DataForSystem returns the stored boxes whose system ID matches, preserving
// order.
func (p *Pssh) DataForSystem(systemID string) [][]byte {
	var out [][]byte
	for i, id := range p.SystemIDs {
		if id == systemID {
			out = append(out, p.Boxes[i])
		}
	}
	return out
}

// ParsePssh walks moov > pssh, also tolerating a bare top-level pssh box as
// produced by CreatePssh or found in manifests.
func ParsePssh(data []byte) (*Pssh, error) {
	pssh := &Pssh{}
	err := NewBoxParser().
		Box("moov", Children).
		FullBox("pssh", pssh.parseBox).
		Parse(data)
	if err != nil {
		return nil, err
	}
	return pssh, nil
}

func (p *Pssh) parseBox(box *Box) error {
	if box.Version > 1 {
		// Versions beyond 1 are undefined; dropping just this box keeps the
		// rest of a valid init segment usable.
		logger.Warn().Int("version", box.Version).Msg("pssh: unsupported box version, skipping")
		return nil
	}
	systemID, err := box.Reader.ReadBytes(16)
	if err != nil {
		return err
	}
	if box.Version > 0 {
		keyIDCount, err := box.Reader.ReadUint32()
		if err != nil {
			return err
		}
		for i := uint32(0); i < keyIDCount; i++ {
			keyID, err := box.Reader.ReadBytes(16)
			if err != nil {
				return err
			}
			p.CencKeyIDs = append(p.CencKeyIDs, hex.EncodeToString(keyID))
		}
	}
	p.SystemIDs = append(p.SystemIDs, hex.EncodeToString(systemID))
	p.Versions = append(p.Versions, box.Version)
	p.Boxes = append(p.Boxes, box.RawBytes())
	return nil
}

// CreatePssh synthesizes a version-0 pssh box around raw init data. The
// systemID must be exactly 16 bytes; violating that is a programming error,
// not an input condition.
func CreatePssh(data, systemID []byte) []byte {
	if len(systemID) != 16 {
		panic(fmt.Sprintf("streaminfo: CreatePssh system ID must be 16 bytes, got %d", len(systemID)))
	}
	psshSize := 4 + 4 + 4 + 16 + 4 + len(data)
	out := make([]byte, 0, psshSize)
	out = binary.BigEndian.AppendUint32(out, uint32(psshSize))
	out = append(out, "pssh"...)
	out = binary.BigEndian.AppendUint32(out, 0) // version 0, no flags
	out = append(out, systemID...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, data...)
	if len(out) != psshSize {
		panic("streaminfo: CreatePssh box size mismatch")
	}
	return out
}

// NormaliseInitData collapses byte-identical pssh boxes in a concatenated
// init-data blob, preserving first-seen order. Some packagers repeat the
// same box in both the manifest and the media. The input is returned
// unchanged when it holds at most one box.
func NormaliseInitData(initData []byte) ([]byte, error) {
	pssh, err := ParsePssh(initData)
	if err != nil {
		return nil, err
	}
	if len(pssh.Boxes) <= 1 {
		return initData, nil
	}
	var unique [][]byte
	for _, box := range pssh.Boxes {
		duplicate := false
		for _, seen := range unique {
			if bytes.Equal(box, seen) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, box)
		}
	}
	return bytes.Join(unique, nil), nil
}
