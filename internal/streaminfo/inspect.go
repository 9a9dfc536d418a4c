package streaminfo

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
)

// Report is what the CLI renders for one input: the playback metadata the
// core extracted, not a general container object model.
type Report struct {
	File          string           `json:"file,omitempty"`
	Kind          string           `json:"kind"`
	TopLevelBoxes []BoxSummary     `json:"boxes,omitempty"`
	Pssh          []PsshSummary    `json:"pssh,omitempty"`
	Segments      []SegmentSummary `json:"segments,omitempty"`
	PlayReady     *PlayReadyReport `json:"playReady,omitempty"`
}

type BoxSummary struct {
	Type string `json:"type"`
	Size uint64 `json:"size"`
}

type PsshSummary struct {
	SystemID string   `json:"systemId"`
	Version  int      `json:"version"`
	Box      string   `json:"box"` // base64
	KeyIDs   []string `json:"keyIds,omitempty"`
}

type SegmentSummary struct {
	Position  int     `json:"position"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	StartByte int64   `json:"startByte"`
	// EndByte is -1 for an open-ended range.
	EndByte int64 `json:"endByte"`
}

type PlayReadyReport struct {
	Records    []PlayReadyRecordSummary `json:"records"`
	LicenseURL string                   `json:"licenseUrl,omitempty"`
}

type PlayReadyRecordSummary struct {
	Type  uint16 `json:"type"`
	Bytes int    `json:"bytes"`
}

// InspectFile sniffs the container format and reports what the core can
// extract from a standalone file.
func InspectFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	if isWebm(data) {
		return inspectWebmInit(path, data)
	}
	return inspectMP4(path, data)
}

// InspectWebmIndex builds the segment index from separate init and cues
// files, mirroring how a streaming client receives them.
func InspectWebmIndex(initPath, cuesPath string) (Report, error) {
	initData, err := os.ReadFile(initPath)
	if err != nil {
		return Report{}, err
	}
	cuesData, err := os.ReadFile(cuesPath)
	if err != nil {
		return Report{}, err
	}
	references, err := ParseWebmIndex(cuesData, initData, nil, nil, 0, 0, 0)
	if err != nil {
		return Report{}, err
	}
	report := Report{File: cuesPath, Kind: "WebM segment index"}
	for _, ref := range references {
		report.Segments = append(report.Segments, SegmentSummary{
			Position:  ref.Position,
			StartTime: ref.StartTime,
			EndTime:   ref.EndTime,
			StartByte: ref.StartByte,
			EndByte:   ref.EndByte,
		})
	}
	return report, nil
}

// InspectPlayReady decodes a base64 PlayReady Object.
func InspectPlayReady(encoded string) (Report, error) {
	pro, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Report{}, fmt.Errorf("playready object is not valid base64: %w", err)
	}
	report := Report{Kind: "PlayReady Object"}
	summary := &PlayReadyReport{LicenseURL: PlayReadyLicenseURL(pro)}
	for _, record := range ParsePlayReadyObject(pro) {
		summary.Records = append(summary.Records, PlayReadyRecordSummary{
			Type:  uint16(record.Type),
			Bytes: len(record.Value),
		})
	}
	report.PlayReady = summary
	return report, nil
}

func isWebm(data []byte) bool {
	return len(data) >= 4 && binary.BigEndian.Uint32(data) == webmIDEBML
}

func inspectMP4(path string, data []byte) (Report, error) {
	report := Report{File: path, Kind: "MP4"}
	boxes, err := listTopLevelBoxes(data)
	if err != nil {
		return Report{}, err
	}
	report.TopLevelBoxes = boxes
	pssh, err := ParsePssh(data)
	if err != nil {
		return Report{}, err
	}
	for i, systemID := range pssh.SystemIDs {
		report.Pssh = append(report.Pssh, PsshSummary{
			SystemID: systemID,
			Version:  pssh.Versions[i],
			Box:      base64.StdEncoding.EncodeToString(pssh.Boxes[i]),
		})
	}
	if len(report.Pssh) > 0 {
		report.Pssh[0].KeyIDs = pssh.CencKeyIDs
	}
	return report, nil
}

// inspectWebmInit reports the timing parameters of a standalone init
// segment; the segment index itself needs the cues via InspectWebmIndex.
func inspectWebmInit(path string, data []byte) (Report, error) {
	if _, err := parseWebmContainer(data); err != nil {
		return Report{}, err
	}
	return Report{File: path, Kind: "WebM init segment"}, nil
}

// listTopLevelBoxes scans sibling headers without descending; presentation
// only, so unregistered types are as interesting as known ones.
func listTopLevelBoxes(data []byte) ([]BoxSummary, error) {
	var boxes []BoxSummary
	r := NewReader(data)
	for r.Remaining() >= 8 {
		start := r.Position()
		size32, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		size := uint64(size32)
		switch size32 {
		case 0:
			size = uint64(len(data) - start)
		case 1:
			size, err = r.ReadUint64()
			if err != nil {
				return nil, err
			}
		}
		headerSize := uint64(r.Position() - start)
		if size < headerSize || size-headerSize > uint64(r.Remaining()) {
			return nil, malformedContainer("box %q declares size %d beyond the file end", name, size)
		}
		if err := r.Skip(int(size - headerSize)); err != nil {
			return nil, err
		}
		boxes = append(boxes, BoxSummary{Type: string(name), Size: size})
	}
	return boxes, nil
}
