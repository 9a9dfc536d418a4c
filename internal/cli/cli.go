package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/autobrr/go-streaminfo/internal/streaminfo"
)

const (
	exitOK    = 0
	exitError = 1
)

type Options struct {
	Output  string
	Init    string
	Cues    string
	Pro     string
	LogFile string
	Bom     bool
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return exitError
	}

	program := programName(args[0])
	opts := Options{}
	files := make([]string, 0)

	for i := 1; i < len(args); i++ {
		original := args[i]
		normalized := normalizeArg(original)

		switch {
		case normalized == "--help" || normalized == "-h":
			Help(program, stdout)
			return exitOK
		case normalized == "--version":
			Version(stdout)
			return exitOK
		case strings.HasPrefix(normalized, "--output="):
			if value, ok := valueAfterEqual(original); ok {
				opts.Output = value
			} else {
				HelpOutput(program, stdout)
				return exitError
			}
		case strings.HasPrefix(normalized, "--init="):
			opts.Init, _ = valueAfterEqual(original)
		case strings.HasPrefix(normalized, "--cues="):
			opts.Cues, _ = valueAfterEqual(original)
		case strings.HasPrefix(normalized, "--pro="):
			opts.Pro, _ = valueAfterEqual(original)
		case strings.HasPrefix(normalized, "--logfile"):
			opts.LogFile = valueAfterLogfile(original)
		case normalized == "--bom":
			opts.Bom = true
		case strings.HasPrefix(normalized, "--"):
			if normalized == "--" {
				continue
			}
			fmt.Fprintf(stderr, "unknown option: %s\n", original)
			return exitError
		default:
			files = append(files, original)
		}
	}

	if len(files) == 0 && opts.Cues == "" && opts.Pro == "" {
		return Usage(program, stdout)
	}

	if opts.Bom {
		writeBOM(stdout, stderr)
	}

	output, inputCount, err := runCore(opts, files)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	if output != "" {
		fmt.Fprintln(stdout, output)
	}

	if opts.LogFile != "" {
		if err := writeLogFile(opts.LogFile, output, opts.Bom); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return exitError
		}
	}

	if inputCount > 0 {
		return exitOK
	}

	return exitError
}

func programName(arg0 string) string {
	name := filepath.Base(arg0)
	if runtime.GOOS == "windows" {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func normalizeArg(arg string) string {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		eq = len(arg)
	}

	lower := strings.ToLower(arg[:eq])
	return lower + arg[eq:]
}

func valueAfterEqual(arg string) (string, bool) {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		return "", false
	}
	return arg[eq+1:], true
}

func valueAfterLogfile(arg string) string {
	if len(arg) <= 10 {
		return ""
	}
	return arg[10:]
}

func writeBOM(stdout, stderr io.Writer) {
	if runtime.GOOS != "windows" {
		return
	}

	bom := []byte{0xEF, 0xBB, 0xBF}
	_, _ = stdout.Write(bom)
	_, _ = stderr.Write(bom)
}

func writeLogFile(path, output string, includeBOM bool) error {
	data := []byte(output)
	if includeBOM && runtime.GOOS == "windows" {
		data = append([]byte{0xEF, 0xBB, 0xBF}, data...)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	return nil
}

func runCore(opts Options, files []string) (string, int, error) {
	if opts.Output != "" && !strings.EqualFold(opts.Output, "Text") && !strings.EqualFold(opts.Output, "JSON") {
		return "", 0, fmt.Errorf("output format not implemented: %s", opts.Output)
	}

	reports := make([]streaminfo.Report, 0, len(files)+2)

	if opts.Pro != "" {
		report, err := streaminfo.InspectPlayReady(opts.Pro)
		if err != nil {
			return "", 0, err
		}
		reports = append(reports, report)
	}

	if opts.Cues != "" {
		if opts.Init == "" {
			return "", 0, fmt.Errorf("--cues requires --init=FILE for the init segment")
		}
		report, err := streaminfo.InspectWebmIndex(opts.Init, opts.Cues)
		if err != nil {
			return "", 0, err
		}
		reports = append(reports, report)
	}

	for _, file := range files {
		report, err := streaminfo.InspectFile(file)
		if err != nil {
			return "", 0, err
		}
		reports = append(reports, report)
	}

	if strings.EqualFold(opts.Output, "JSON") {
		return streaminfo.RenderJSON(reports), len(reports), nil
	}
	return streaminfo.RenderText(reports), len(reports), nil
}
