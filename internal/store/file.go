package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nissyi-gh/tally/internal/model"
)

// FileStore keeps one encoded task per line in a plain text file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store backed by the text file at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Close() error { return nil }

// Load reads the file line by line with no length limit. Corrupt lines are
// logged and skipped so a damaged file still yields every task that can be
// recovered.
func (s *FileStore) Load() ([]model.Task, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("No task file yet, starting empty", slog.String("path", s.path))
		return nil, nil
	}
	if err != nil {
		return nil, model.IOError("open task file", err)
	}
	defer f.Close()

	var tasks []model.Task
	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return tasks, model.IOError("read task file", readErr)
		}
		if line != "" {
			lineNo++
			if t, ok := s.decodeLine(line, lineNo); ok {
				tasks = append(tasks, t)
			}
		}
		if readErr != nil {
			break
		}
	}
	s.logger.Debug("Loaded tasks", slog.String("path", s.path), slog.Int("count", len(tasks)))
	return tasks, nil
}

// decodeLine parses one raw line, logging and rejecting anything corrupt.
func (s *FileStore) decodeLine(line string, lineNo int) (model.Task, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return model.Task{}, false
	}
	t, err := model.Decode(line)
	if err != nil {
		s.logger.Warn("Skipped corrupted line",
			slog.String("path", s.path),
			slog.Int("line", lineNo),
			slog.Int("bytes", len(line)),
			slog.String("error", truncate(err.Error(), 200)))
		return model.Task{}, false
	}
	return t, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Save rewrites the whole file through a temp file and rename so a crash
// mid-write leaves the previous contents in place.
func (s *FileStore) Save(tasks []model.Task) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.IOError("create data directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return model.IOError("create temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	w := bufio.NewWriter(tmp)
	for _, t := range tasks {
		if _, err := fmt.Fprintln(w, t.Encode()); err != nil {
			cleanup()
			return model.IOError("write task file", err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return model.IOError("write task file", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return model.IOError("sync task file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return model.IOError("close task file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return model.IOError("replace task file", err)
	}
	return nil
}
