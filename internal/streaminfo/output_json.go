package streaminfo

import (
	"bytes"
	"encoding/json"
)

type jsonLibraryOut struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

type jsonPayloadOut struct {
	CreatingLibrary jsonLibraryOut `json:"creatingLibrary"`
	Report          Report         `json:"report"`
}

// RenderJSON emits one object for a single report, an array otherwise.
func RenderJSON(reports []Report) string {
	if len(reports) == 1 {
		return marshalIndent(buildJSONPayload(reports[0])) + "\n"
	}
	payloads := make([]jsonPayloadOut, 0, len(reports))
	for _, report := range reports {
		payloads = append(payloads, buildJSONPayload(report))
	}
	return marshalIndent(payloads) + "\n"
}

func buildJSONPayload(report Report) jsonPayloadOut {
	return jsonPayloadOut{
		CreatingLibrary: jsonLibraryOut{
			Name:    AppName,
			Version: FormatVersion(AppVersion),
			URL:     AppURL,
		},
		Report: report,
	}
}

func marshalIndent(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		// Report contains only encodable fields.
		panic(err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
