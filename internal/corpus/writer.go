package corpus

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Layout selects how surviving documents are written.
type Layout int

const (
	// Files writes one file per document into a directory (default)
	Files Layout = iota
	// JSONL writes one {"text": ...} record per line into a single file,
	// gzip-compressed when the path ends in ".gz"
	JSONL
)

// String returns the string representation of the layout.
func (l Layout) String() string {
	switch l {
	case Files:
		return "files"
	case JSONL:
		return "jsonl"
	default:
		return "unknown"
	}
}

// ParseLayout resolves a configured layout name.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case "", "files", "dir":
		return Files, nil
	case "jsonl":
		return JSONL, nil
	default:
		return Files, fmt.Errorf("unknown output layout %q (want files or jsonl)", name)
	}
}

// Writer writes documents to an output directory or JSON Lines file.
// It is not safe for concurrent use.
type Writer struct {
	layout  Layout
	dir     string
	file    *os.File
	gz      *gzip.Writer
	buf     *bufio.Writer
	enc     *json.Encoder
	written int
}

// NewWriter prepares path for output. For Files it is a directory that is
// created if missing; for JSONL it is a file that is created or truncated.
func NewWriter(path string, layout Layout) (*Writer, error) {
	w := &Writer{layout: layout}

	if layout == Files {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %q: %w", path, err)
		}
		w.dir = path
		return w, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	w.file = f

	var out io.Writer = f
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		w.gz = gzip.NewWriter(f)
		out = w.gz
	}
	w.buf = bufio.NewWriter(out)
	w.enc = json.NewEncoder(w.buf)
	w.enc.SetEscapeHTML(false)
	return w, nil
}

// Write stores one document.
func (w *Writer) Write(doc Document) error {
	if w.layout == Files {
		target := filepath.Join(w.dir, filepath.Base(doc.Name))
		if err := os.WriteFile(target, []byte(doc.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write %q: %w", target, err)
		}
	} else if err := w.enc.Encode(Record{Text: doc.Text, Name: doc.Name}); err != nil {
		return fmt.Errorf("failed to write record %q: %w", doc.Name, err)
	}
	w.written++
	return nil
}

// Written returns the number of documents written so far.
func (w *Writer) Written() int {
	return w.written
}

// Close flushes buffered output. It is a no-op for the Files layout.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			w.file.Close()
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	return w.file.Close()
}
