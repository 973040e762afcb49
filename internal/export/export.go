// Package export writes a generated project to a directory on disk.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"pulse/internal/fileutil"
	"pulse/internal/logging"
	"pulse/internal/project"
	"pulse/internal/security"
)

const (
	defaultSlug = "pulse-project"
	filePerm    = 0o644
)

// Report describes a finished export.
type Report struct {
	Dir     string   // absolute project directory
	Files   int      // files written
	Skipped []string // duplicate paths shadowed by an earlier file
}

// Exporter writes projects under a base directory, one subdirectory per title.
type Exporter struct {
	baseDir string
}

// New creates an exporter rooted at baseDir.
func New(baseDir string) *Exporter {
	if baseDir == "" {
		baseDir = "."
	}
	return &Exporter{baseDir: baseDir}
}

// Export writes every file of p. Either all files are written or none are.
// Paths that would leave the project directory fail the whole export.
func (e *Exporter) Export(p *project.State) (Report, error) {
	if p == nil {
		return Report{}, fmt.Errorf("nothing to export")
	}

	validator, err := security.NewPathValidator(filepath.Join(e.baseDir, Slug(p.Title)))
	if err != nil {
		return Report{}, err
	}
	report := Report{Dir: validator.Root()}

	tx := fileutil.NewFileTransaction()
	seen := make(map[string]bool, len(p.Files))
	for _, f := range p.Files {
		target, err := validator.Resolve(f.Path)
		if err != nil {
			return Report{}, err
		}
		// First match wins, the same as project lookup.
		if seen[target] {
			report.Skipped = append(report.Skipped, f.Path)
			continue
		}
		seen[target] = true
		if err := tx.Write(target, []byte(f.Content), filePerm); err != nil {
			return Report{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		logging.Warn("export failed", "dir", report.Dir, "error", err)
		return Report{}, err
	}

	report.Files = tx.Len()
	logging.Info("project exported",
		"dir", report.Dir,
		"files", report.Files,
		"skipped", len(report.Skipped))
	return report, nil
}

// Slug turns a project title into a directory name.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return defaultSlug
	}
	return security.SanitizeFilename(slug)
}
