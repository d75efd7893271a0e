// Package collector stores events received by the development backend.
package collector

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is one received event as written to the event file.
type Entry struct {
	ReceivedAt time.Time      `json:"received_at"`
	RequestID  string         `json:"request_id,omitempty"`
	Event      map[string]any `json:"event"`
}

type Config struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// Recorder appends entries as JSON lines to a size-rotated file.
type Recorder struct {
	writer *lumberjack.Logger
	mu     sync.Mutex
}

func NewRecorder(cfg Config) *Recorder {
	return &Recorder{
		writer: &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
			LocalTime:  true,
		},
	}
}

func (r *Recorder) Record(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// ReadHistory returns the most recent limit entries from the current file.
// A limit of zero or less returns everything.
func (r *Recorder) ReadHistory(limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.Open(r.writer.Filename)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func (r *Recorder) FilePath() string {
	return r.writer.Filename
}

func (r *Recorder) Close() error {
	return r.writer.Close()
}
