package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artiomtarasiuk/log-analyzer/pkg/stats"
)

const (
	// TemplateName is the report template expected inside the report dir.
	TemplateName = "report.html"

	tablePlaceholder = "$table_json"
)

// Path returns the dated report location for a log of the given date.
func Path(dir string, date time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("report-%s.html", date.Format("2006.01.02")))
}

// Exists reports whether a report was already generated at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Render substitutes the JSON-encoded record table into the template found
// in reportDir and writes the result to reportPath.
func Render(reportDir, reportPath string, records []stats.Record) error {
	tmpl, err := os.ReadFile(filepath.Join(reportDir, TemplateName))
	if err != nil {
		return fmt.Errorf("read report template: %w", err)
	}
	table, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode report table: %w", err)
	}
	rendered := strings.Replace(string(tmpl), tablePlaceholder, string(table), 1)
	if err := os.WriteFile(reportPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
