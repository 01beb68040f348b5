package logfile

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	log "github.com/sirupsen/logrus"
)

// namePattern matches ui access logs, plain or gzipped, with the log date
// embedded in the name.
var namePattern = regexp.MustCompile(`^nginx-access-ui\.log-(\d{8})(\.gz)?$`)

// Meta describes one discovered log file.
type Meta struct {
	Path    string
	Name    string
	Date    time.Time
	Gzipped bool
}

// FindLatest scans dir for access logs and returns the one with the newest
// filename date, or nil when nothing matches. Files whose date digits do not
// form a real date are skipped.
func FindLatest(dir string) (*Meta, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var latest *Meta
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := namePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		date, err := time.Parse("20060102", m[1])
		if err != nil {
			log.WithFields(log.Fields{
				"file": entry.Name(),
			}).Info("skipping log file with unparseable date")
			continue
		}
		if latest == nil || date.After(latest.Date) {
			latest = &Meta{
				Path:    filepath.Join(dir, entry.Name()),
				Name:    entry.Name(),
				Date:    date,
				Gzipped: m[2] == ".gz",
			}
		}
	}
	return latest, nil
}

// Open returns the decoded log stream, decompressing transparently for
// gzipped files. The caller owns the stream and must Close it; Close
// releases the gzip reader and the underlying file in order.
func (m *Meta) Open() (io.ReadCloser, error) {
	f, err := os.Open(m.Path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if !m.Gzipped {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip stream %s: %w", m.Name, err)
	}
	return &gzipStream{Reader: zr, gz: zr, file: f}, nil
}

type gzipStream struct {
	io.Reader
	gz   *gzip.Reader
	file *os.File
}

func (s *gzipStream) Close() error {
	err := s.gz.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
