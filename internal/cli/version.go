package cli

import (
	"fmt"
	"io"

	"github.com/autobrr/go-streaminfo/internal/streaminfo"
)

var appVersion = "dev"

func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
}

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "go-streaminfo, %s\n", streaminfo.FormatVersion(appVersion))
}
