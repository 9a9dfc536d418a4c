package streaminfo

import (
	"bytes"
	"fmt"
	"strings"
)

// RenderText formats reports the way the CLI prints them: one titled block
// per report, padded "Name : Value" fields, a ReportBy trailer.
func RenderText(reports []Report) string {
	var buf bytes.Buffer
	for i, report := range reports {
		if i > 0 {
			buf.WriteString("\n")
		}
		writeReport(&buf, report)
	}
	buf.WriteString("\n")
	buf.WriteString(reportByLine())
	output := strings.TrimRight(buf.String(), "\n")
	return output + "\n\n"
}

func reportByLine() string {
	return fmt.Sprintf("ReportBy : %s - %s", AppName, FormatVersion(AppVersion))
}

func writeReport(buf *bytes.Buffer, report Report) {
	buf.WriteString(report.Kind)
	buf.WriteString("\n")
	if report.File != "" {
		writeField(buf, "Complete name", report.File)
	}
	for _, box := range report.TopLevelBoxes {
		writeField(buf, "Box", fmt.Sprintf("%s (%d bytes)", box.Type, box.Size))
	}
	for _, pssh := range report.Pssh {
		writeField(buf, "Protection system", pssh.SystemID)
		for _, keyID := range pssh.KeyIDs {
			writeField(buf, "Key ID", keyID)
		}
	}
	for _, segment := range report.Segments {
		writeField(buf, fmt.Sprintf("Segment #%d", segment.Position),
			formatSegment(segment))
	}
	if report.PlayReady != nil {
		for _, record := range report.PlayReady.Records {
			writeField(buf, "PlayReady record",
				fmt.Sprintf("type %d, %d bytes", record.Type, record.Bytes))
		}
		if report.PlayReady.LicenseURL != "" {
			writeField(buf, "License URL", report.PlayReady.LicenseURL)
		}
	}
}

func formatSegment(segment SegmentSummary) string {
	byteRange := fmt.Sprintf("bytes %d-", segment.StartByte)
	if segment.EndByte >= 0 {
		byteRange = fmt.Sprintf("bytes %d-%d", segment.StartByte, segment.EndByte)
	}
	return fmt.Sprintf("%.3f s - %.3f s, %s", segment.StartTime, segment.EndTime, byteRange)
}

func writeField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(padRight(name, 41))
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\n")
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}
