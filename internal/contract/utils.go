package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/steward/schema"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	MediumColor   = color.New(color.FgYellow)              // MediumColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
)

// Trend colors for console output.
var (
	DecreasingColor = color.New(color.FgRed)
	IncreasingColor = color.New(color.FgGreen)
)

// GetColorLabel returns a colored severity label for console output (table).
func GetColorLabel(severity schema.Severity) string {
	text := schema.GetPlainLabel(severity)

	switch severity {
	case schema.CriticalSeverity:
		return CriticalColor.Sprint(text)
	case schema.HighSeverity:
		return HighColor.Sprint(text)
	case schema.MediumSeverity:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetColorTrend returns a colored trend label for console output (table).
func GetColorTrend(trend schema.Trend) string {
	switch trend {
	case schema.DecreasingTrend:
		return DecreasingColor.Sprint(string(trend))
	case schema.IncreasingTrend:
		return IncreasingColor.Sprint(string(trend))
	default:
		return string(trend)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
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

// GetStoreDBFilePath returns the path to the SQLite DB file for the analysis store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".steward_analysis.db"
	}
	return filepath.Join(homeDir, ".steward_analysis.db")
}

// TruncateText truncates a string to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
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

// DedupeRepositoryIDs normalizes identifiers and removes duplicates, keeping first-seen order.
func DedupeRepositoryIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = NormalizeRepositoryID(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// NormalizeRepositoryID trims id and reduces repository URLs such as
// https://github.com/owner/name.git to owner/name. Anything else is
// returned trimmed for validation to reject.
func NormalizeRepositoryID(id string) string {
	id = strings.TrimSpace(id)
	if schema.IsValidRepositoryID(id) {
		return id
	}
	if parsed := RepositoryIDFromURL(id); parsed != "" {
		return parsed
	}
	return id
}

// RepositoryIDFromURL extracts owner/name from an SSH or HTTPS remote URL.
// It returns an empty string when the URL has no such suffix.
func RepositoryIDFromURL(remote string) string {
	remote = strings.TrimSuffix(strings.TrimSpace(remote), "/")
	remote = strings.TrimSuffix(remote, ".git")
	if _, rest, ok := strings.Cut(remote, "://"); ok {
		remote = rest
	} else if _, rest, ok := strings.Cut(remote, ":"); ok {
		remote = "host/" + rest // scp-like syntax, e.g. git@github.com:owner/name
	}
	parts := strings.Split(remote, "/")
	if len(parts) < 3 || parts[0] == "" {
		return ""
	}
	id := parts[len(parts)-2] + "/" + parts[len(parts)-1]
	if !schema.IsValidRepositoryID(id) {
		return ""
	}
	return id
}
