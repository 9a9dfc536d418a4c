package streaminfo

import (
	"encoding/binary"
	"encoding/xml"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// PlayReadyRecordType identifies one record inside a PlayReady Object.
type PlayReadyRecordType uint16

const (
	// PlayReadyRightsManagement holds the UTF-16LE WRMHEADER XML.
	PlayReadyRightsManagement PlayReadyRecordType = 1
	PlayReadyReserved         PlayReadyRecordType = 2
	PlayReadyEmbeddedLicense  PlayReadyRecordType = 3
)

// PlayReadyRecord is one {type, value} record from a PlayReady Object.
type PlayReadyRecord struct {
	Type  PlayReadyRecordType
	Value []byte
}

// ParsePlayReadyObject decodes the records of a binary PlayReady Object.
// The PRO is a defensive, never-fatal surface: any structural inconsistency
// yields an empty record list so that a broken vendor blob cannot abort an
// otherwise valid manifest parse.
func ParsePlayReadyObject(pro []byte) []PlayReadyRecord {
	if len(pro) < 6 {
		logger.Warn().Int("bytes", len(pro)).Msg("playready: object too short")
		return nil
	}
	totalLength := binary.LittleEndian.Uint32(pro)
	if totalLength != uint32(len(pro)) {
		logger.Warn().
			Uint32("declared", totalLength).Int("actual", len(pro)).
			Msg("playready: object length mismatch")
		return nil
	}
	// The record count at offset 4 is deliberately not validated against the
	// records actually present; historic content gets it wrong and still
	// plays everywhere else.
	pos := 6

	var records []PlayReadyRecord
	for len(pro)-pos >= 2 {
		recordType := PlayReadyRecordType(binary.LittleEndian.Uint16(pro[pos:]))
		pos += 2
		if len(pro)-pos < 2 {
			logger.Warn().Msg("playready: truncated record header")
			return nil
		}
		length := int(binary.LittleEndian.Uint16(pro[pos:]))
		pos += 2
		if length%2 != 0 {
			logger.Warn().Int("length", length).Msg("playready: odd record length")
			return nil
		}
		if length > len(pro)-pos {
			logger.Warn().Int("length", length).Msg("playready: record overruns object")
			return nil
		}
		records = append(records, PlayReadyRecord{
			Type:  recordType,
			Value: pro[pos : pos+length],
		})
		pos += length
	}
	return records
}

// wrmHeader models the part of the WRMHEADER XML we care about. The decoder
// matches local names, so namespace prefixes in real headers don't matter.
type wrmHeader struct {
	Data struct {
		LaURL string `xml:"LA_URL"`
	} `xml:"DATA"`
}

// PlayReadyLicenseURL extracts the license-acquisition URL from a PlayReady
// Object, or "" when the object carries none.
func PlayReadyLicenseURL(pro []byte) string {
	for _, record := range ParsePlayReadyObject(pro) {
		if record.Type != PlayReadyRightsManagement {
			continue
		}
		return parseWrmHeaderLaURL(record.Value)
	}
	return ""
}

// parseWrmHeaderLaURL decodes a UTF-16LE WRMHEADER and reads DATA > LA_URL.
func parseWrmHeaderLaURL(value []byte) string {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	decoded, err := decoder.Bytes(value)
	if err != nil {
		logger.Warn().Err(err).Msg("playready: WRMHEADER is not valid UTF-16")
		return ""
	}
	var header wrmHeader
	if err := xml.Unmarshal(decoded, &header); err != nil {
		logger.Warn().Err(err).Msg("playready: WRMHEADER is not valid XML")
		return ""
	}
	return strings.TrimSpace(header.Data.LaURL)
}
