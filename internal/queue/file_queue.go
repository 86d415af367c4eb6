// Package queue provides the durable, file-backed submission queue.
package queue

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FileQueue stores pending submissions as newline-delimited URLs in a single
// file. A mutex serializes append and drain so a submission lands in exactly
// one drain cycle.
type FileQueue struct {
	path string
	mu   sync.Mutex
}

// NewFileQueue creates a queue backed by the file at path. The file is
// created lazily on first enqueue.
func NewFileQueue(path string) *FileQueue {
	return &FileQueue{path: path}
}

// Enqueue appends one normalized URL as a line.
func (q *FileQueue) Enqueue(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("enqueue canceled: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	f, err := os.OpenFile(q.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open queue file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(url + "\n"); err != nil {
		return fmt.Errorf("append to queue file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync queue file: %w", err)
	}
	return nil
}

// DrainAll returns the deduplicated pending set and truncates the file, both
// under the lock, so no submission is lost or delivered twice across drains.
// A missing file reads as an empty queue.
func (q *FileQueue) DrainAll(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("drain canceled: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	lines, err := q.readLines()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(lines))
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		urls = append(urls, line)
	}

	if err := os.Truncate(q.path, 0); err != nil {
		return nil, fmt.Errorf("truncate queue file: %w", err)
	}
	return urls, nil
}

// Contains reports whether url is currently pending. Comparison is exact;
// callers are expected to pass normalized URLs.
func (q *FileQueue) Contains(ctx context.Context, url string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("contains canceled: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	lines, err := q.readLines()
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		if line == url {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of pending lines.
func (q *FileQueue) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("len canceled: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	lines, err := q.readLines()
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

func (q *FileQueue) readLines() ([]string, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read queue file: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
