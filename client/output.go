package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter formats results for output.
type Formatter interface {
	FormatList(w io.Writer, files []FileInfo) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatError(w io.Writer, err error) error
}

// NewFormatter returns the formatter for format: "json", "yaml" or anything
// else for human-readable text.
func NewFormatter(format string, quiet bool) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "yaml":
		return &YAMLFormatter{}
	default:
		return &HumanFormatter{Quiet: quiet}
	}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

func (f *HumanFormatter) FormatList(w io.Writer, files []FileInfo) error {
	if len(files) == 0 {
		_, _ = fmt.Fprintln(w, "No files shared")
		return nil
	}

	if f.Quiet {
		for _, file := range files {
			_, _ = fmt.Fprintln(w, file.ID)
		}
		return nil
	}

	idWidth, nameWidth := 2, 4
	for _, file := range files {
		idWidth = max(idWidth, len(file.ID))
		nameWidth = max(nameWidth, len(file.Name))
	}
	idWidth = min(idWidth, 40)
	nameWidth = min(nameWidth, 60)

	_, _ = fmt.Fprintf(w, "%-*s  %-*s  %10s\n", idWidth, "ID", nameWidth, "NAME", "SIZE")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", idWidth), strings.Repeat("-", nameWidth), strings.Repeat("-", 10))

	var total int64
	for _, file := range files {
		_, _ = fmt.Fprintf(w, "%-*s  %-*s  %10s\n",
			idWidth, truncate(file.ID, idWidth),
			nameWidth, truncate(file.Name, nameWidth),
			FormatSize(file.Size))
		total += file.Size
	}

	_, _ = fmt.Fprintf(w, "\n%d file(s) (%s total)\n", len(files), FormatSize(total))
	return nil
}

func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if f.Quiet {
		return nil
	}

	if result.LocalPath == "-" {
		_, _ = fmt.Fprintf(w, "Downloaded: %s (%s)\n", result.Name, FormatSize(result.Size))
	} else {
		_, _ = fmt.Fprintf(w, "Downloaded: %s -> %s (%s)\n", result.Name, result.LocalPath, FormatSize(result.Size))
	}
	return nil
}

func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatList(w io.Writer, files []FileInfo) error {
	return writeJSON(w, files)
}

func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	return writeJSON(w, map[string]string{"error": err.Error()})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAMLFormatter outputs YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatList(w io.Writer, files []FileInfo) error {
	return writeYAML(w, files)
}

func (f *YAMLFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeYAML(w, result)
}

func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	return writeYAML(w, map[string]string{"error": err.Error()})
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func truncate(s string, width int) string {
	if len(s) <= width || width < 4 {
		return s
	}
	return s[:width-3] + "..."
}

// FormatSize formats bytes as human-readable size.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
