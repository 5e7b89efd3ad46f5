package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/interview"
)

const (
	DefaultDir      = "results"
	timestampLayout = "20060102_150405"
)

// Exporter writes session records under Dir.
type Exporter struct {
	Dir     string
	Version string
	// XLSX also writes a spreadsheet report next to the JSON file.
	XLSX   bool
	Logger *zap.Logger
	Now    func() time.Time
}

// Export writes the record of res as JSON and returns the file path. A
// failed spreadsheet report is logged and does not fail the export.
func (e *Exporter) Export(res *interview.Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("no session result to export")
	}

	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	exportedAt := now()

	dir := strings.TrimSpace(e.Dir)
	if dir == "" {
		dir = DefaultDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	record := Build(res, e.Version, exportedAt)

	path := filepath.Join(dir, FileName(record.CandidateInfo.Name, exportedAt))
	if err := WriteJSON(path, record); err != nil {
		return "", err
	}

	if e.XLSX {
		report := strings.TrimSuffix(path, ".json") + ".xlsx"
		if err := WriteXLSX(report, record); err != nil {
			logger.Warn("writing spreadsheet report", zap.String("path", report), zap.Error(err))
		} else {
			logger.Info("spreadsheet report written", zap.String("path", report))
		}
	}

	return path, nil
}

// WriteJSON writes record as indented JSON to path.
func WriteJSON(path string, record Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results to %s: %w", path, err)
	}

	return nil
}

// FileName is the results file name of a candidate interviewed at t.
func FileName(candidate string, t time.Time) string {
	return fmt.Sprintf("interview_%s_%s.json", sanitize(candidate), t.Format(timestampLayout))
}

func sanitize(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteRune('_')
			underscore = true
		}
	}

	out := strings.TrimRight(b.String(), "_")
	if out == "" {
		return "candidate"
	}
	return out
}
