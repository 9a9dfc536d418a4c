package streaminfo

import "strings"

const (
	AppName = "go-streaminfo"
	AppURL  = "https://github.com/autobrr/go-streaminfo"
)

var AppVersion = "dev"

func SetAppVersion(version string) {
	if version != "" {
		AppVersion = version
	}
}

func FormatVersion(version string) string {
	if version == "" || version == "dev" {
		return "dev build"
	}
	return "v" + strings.TrimPrefix(version, "v")
}
