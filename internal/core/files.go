package core

// files.go resolves manifest file references against the import share and
// keeps the append-only missing-file log. A missing file never fails a
// row; it degrades the record to metadata-only.

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// StatExists probes a path with os.Stat. The production ExistsFunc.
func StatExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MissingFileLog is an append-only sink for unresolvable file references,
// one line per occurrence. Safe for concurrent use within the process.
type MissingFileLog struct {
	mu   sync.Mutex
	path string
}

// NewMissingFileLog returns a log writing to path. The file and its parent
// directory are created on first append.
func NewMissingFileLog(path string) *MissingFileLog {
	return &MissingFileLog{path: path}
}

// Append writes one line to the log.
func (l *MissingFileLog) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open missing file log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append to missing file log: %w", err)
	}
	return nil
}

// FileResolver turns manifest filenames into file:// locators rooted at
// the configured base import path.
type FileResolver struct {
	basePath string
	exists   ExistsFunc
	log      *MissingFileLog
}

// NewFileResolver builds a resolver over basePath using exists as the
// existence probe and log as the missing-file sink.
func NewFileResolver(basePath string, exists ExistsFunc, log *MissingFileLog) *FileResolver {
	return &FileResolver{
		basePath: basePath,
		exists:   exists,
		log:      log,
	}
}

// Resolve maps a filename to its file references. Resolution never fails:
// a blank filename or a file absent from the share logs the fact and
// returns an empty list.
func (r *FileResolver) Resolve(fileName, arkID string) []FileReference {
	if fileName == "" {
		r.append(fmt.Sprintf("Work %s is missing a filename", arkID))
		return []FileReference{}
	}

	path := filepath.Join(r.basePath, fileName)
	if !r.exists(path) {
		r.append(fmt.Sprintf("Work %s has an invalid file: %s not found", arkID, path))
		return []FileReference{}
	}

	return []FileReference{{
		SourceName:      fileName,
		ResolvedLocator: "file://" + path,
		Existed:         true,
	}}
}

func (r *FileResolver) append(line string) {
	if err := r.log.Append(line); err != nil {
		slog.Error("missing file log append failed", "error", err, "line", line)
	}
}
