package streaminfo

import (
	"os"

	"github.com/rs/zerolog"
)

// Defensive parse conditions degrade to safe defaults instead of failing the
// whole parse; the logger is how those degradations stay visible. Warn level
// keeps normal runs quiet.
var logger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().
	Timestamp().Str("component", "streaminfo").Logger()

// SetLogger replaces the package logger, e.g. to route degradation warnings
// into an application's own zerolog sink.
func SetLogger(l zerolog.Logger) {
	logger = l
}
