// Command segment_scan walks a directory of downloaded media segments and
// emits one JSON line per file with the metadata the inspection API can
// extract: container kind, pssh system IDs and the segment byte layout.
// Useful for auditing a CDN mirror or a packager output directory.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/autobrr/go-streaminfo/pkg/streaminfo"
)

type Config struct {
	Root       string
	OutputPath string
	Extensions []string
	DryRun     bool
	KeepGoing  bool
}

type scanResult struct {
	Path   string             `json:"path"`
	Report *streaminfo.Report `json:"report,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func main() {
	cfg := defaultConfig()
	var extensionsCSV string
	flag.StringVar(&cfg.Root, "root", cfg.Root, "directory to scan")
	flag.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "JSONL output path, - for stdout")
	flag.StringVar(&extensionsCSV, "extensions", strings.Join(cfg.Extensions, ","), "comma-separated file extensions to inspect")
	flag.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "list matching files without inspecting them")
	flag.BoolVar(&cfg.KeepGoing, "keep-going", cfg.KeepGoing, "record per-file errors instead of aborting")
	flag.Parse()

	cfg.Extensions = parseExtensions(extensionsCSV)
	if err := validateConfig(cfg); err != nil {
		fatalf("config error: %v", err)
	}

	out, err := openOutput(cfg.OutputPath)
	if err != nil {
		fatalf("open output: %v", err)
	}
	defer out.Close()

	if err := scan(cfg, out); err != nil {
		fatalf("scan: %v", err)
	}
}

func defaultConfig() Config {
	return Config{
		Root:       ".",
		OutputPath: "-",
		Extensions: []string{".mp4", ".m4s", ".m4v", ".m4a", ".webm"},
		KeepGoing:  true,
	}
}

func parseExtensions(csv string) []string {
	var out []string
	for _, ext := range strings.Split(csv, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func validateConfig(cfg Config) error {
	if cfg.Root == "" {
		return errors.New("root must not be empty")
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", cfg.Root)
	}
	if len(cfg.Extensions) == 0 {
		return errors.New("no extensions configured")
	}
	return nil
}

func openOutput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

func scan(cfg Config, out io.Writer) error {
	return filepath.WalkDir(cfg.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !matchesExtension(cfg.Extensions, path) {
			return nil
		}
		if cfg.DryRun {
			fmt.Fprintln(out, path)
			return nil
		}

		result := scanResult{Path: path}
		report, err := streaminfo.InspectFile(path)
		if err != nil {
			if !cfg.KeepGoing {
				return fmt.Errorf("%s: %w", path, err)
			}
			result.Error = err.Error()
		} else {
			result.Report = &report
		}
		return writeJSONLine(out, result)
	})
}

func matchesExtension(extensions []string, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func writeJSONLine(w io.Writer, result scanResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
