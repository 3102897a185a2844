package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/flowdash/schema"
)

// Color variables for console output.
var (
	BehindColor   = color.New(color.FgRed, color.Bold) // BehindColor flags weeks under the ideal line.
	ExceededColor = color.New(color.FgMagenta, color.Bold)
	OnTrackColor  = color.New(color.FgGreen)
	IdleColor     = color.New(color.FgCyan) // IdleColor is for series that have not started.
)

// GetColorLabel returns a colored pace label for console output (table).
func GetColorLabel(status schema.PaceStatus) string {
	text := string(status)

	switch status {
	case schema.BehindPace:
		return BehindColor.Sprint(text)
	case schema.ExceededPace:
		return ExceededColor.Sprint(text)
	case schema.OnTrackPace:
		return OnTrackColor.Sprint(text)
	default:
		return IdleColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for dataset caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".flowdash_cache.db"
	}
	return filepath.Join(homeDir, ".flowdash_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".flowdash_analysis.db"
	}
	return filepath.Join(homeDir, ".flowdash_analysis.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
