package runlog

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// JSONLStore stores records in a JSONL file. When rotation is enabled older
// segments are kept next to the file and still returned by Query.
type JSONLStore struct {
	path   string
	mu     sync.Mutex
	rotate *lumberjack.Logger
}

// NewJSONLStore creates the file at path if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

// NewRotatingJSONLStore creates a store rotating the file once it exceeds
// maxSizeMB. maxBackups and maxAgeDays bound the kept segments (0 keeps all).
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &JSONLStore{
		path: path,
		rotate: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		},
	}, nil
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

// Append writes rec as one JSON line.
func (s *JSONLStore) Append(_ context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rotate != nil {
		return json.NewEncoder(s.rotate).Encode(rec)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

// Query scans the file and any rotated segments. Malformed lines are skipped.
func (s *JSONLStore) Query(_ context.Context, q Query) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := []string{s.path}
	if s.rotate != nil {
		ext := filepath.Ext(s.path)
		backups, err := filepath.Glob(s.path[:len(s.path)-len(ext)] + "-*" + ext)
		if err != nil {
			return nil, err
		}
		files = append(backups, files...)
	}
	var res []RunRecord
	for _, name := range files {
		f, err := os.Open(name)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		recs, err := scan(f, q)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	return res, nil
}

func scan(r io.Reader, q Query) ([]RunRecord, error) {
	var res []RunRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if q.Match(rec) {
			res = append(res, rec)
		}
	}
	return res, scanner.Err()
}

// Close releases the rotating writer if any.
func (s *JSONLStore) Close() error {
	if s.rotate != nil {
		return s.rotate.Close()
	}
	return nil
}
