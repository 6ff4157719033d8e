// Package corpus loads the documents to be curated and writes out the
// survivors.
//
// A source is a local file, a directory (expanded to the files beneath it),
// an http(s) URL, or "-" for standard input. Plain and HTML sources yield
// one document each; JSON Lines sources (".jsonl", ".jsonl.gz") yield one
// document per record, reading the record's "text" field.
//
// Usage Example:
//
//	docs, err := corpus.Load(ctx, []string{"crawl/"}, corpus.Options{ExtractHTML: true})
//	if err != nil {
//		return err
//	}
//	w, err := corpus.NewWriter("out", corpus.Files)
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/chriscorrea/winnow/internal/extract"
	"github.com/chriscorrea/winnow/internal/fetch"
)

// maxRecordBytes bounds a single JSON Lines record.
const maxRecordBytes = 16 * 1024 * 1024

// Document is one unit of the corpus. Index is its position in load order,
// which is also the order duplicate resolution prefers.
type Document struct {
	Index  int
	Name   string // output file name, unique within a load
	Source string // where the text came from
	Text   string
}

// Record is the JSON Lines shape read and written by this package.
type Record struct {
	Text string `json:"text"`
	Name string `json:"name,omitempty"`
}

// Options control loading.
type Options struct {
	ExtractHTML bool            // convert HTML sources to text
	Extract     extract.Options // passed to extract.ToText
	// OnSkip is called for each source that could not be read. Loading
	// continues with the next source.
	OnSkip func(source string, err error)
}

// Load reads every source in order. Unreadable sources are reported
// through opts.OnSkip and skipped; Load fails only if sources cannot be
// expanded or ctx is cancelled.
func Load(ctx context.Context, sources []string, opts Options) ([]Document, error) {
	expanded, err := fetch.Expand(sources)
	if err != nil {
		return nil, err
	}

	var docs []Document
	names := make(map[string]bool)

	for _, source := range expanded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, err := loadSource(ctx, source, opts)
		if err != nil {
			slog.Debug("Skipping source", "source", source, "error", err)
			if opts.OnSkip != nil {
				opts.OnSkip(source, err)
			}
			continue
		}

		for _, doc := range loaded {
			doc.Index = len(docs)
			doc.Name = uniqueName(names, fileName(doc.Name, doc.Index))
			docs = append(docs, doc)
		}
	}

	slog.Debug("Corpus loaded", "sources", len(expanded), "documents", len(docs))
	return docs, nil
}

// loadSource reads one expanded source
func loadSource(ctx context.Context, source string, opts Options) ([]Document, error) {
	reader, err := fetch.GetContent(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer reader.Close()

	name := baseName(source)

	if IsJSONL(source) {
		return readJSONL(reader, source, name)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	text := string(content)
	if opts.ExtractHTML && extract.IsHTML(strings.TrimSuffix(source, ".gz"), head(content)) {
		eopts := opts.Extract
		if eopts.BaseURL == nil && fetch.IsURL(source) {
			eopts.BaseURL, _ = url.Parse(source) // nil on parse errors
		}
		text, err = extract.ToText(bytes.NewReader(content), eopts)
		if err != nil {
			return nil, fmt.Errorf("failed to extract content: %w", err)
		}
	}

	return []Document{{Name: name, Source: source, Text: text}}, nil
}

// readJSONL yields one document per non-blank line
func readJSONL(r io.Reader, source, name string) ([]Document, error) {
	stem := strings.TrimSuffix(name, ".jsonl")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)

	var docs []Document
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}

		docName := rec.Name
		if docName == "" {
			docName = fmt.Sprintf("%s-%06d.txt", stem, len(docs))
		}
		docs = append(docs, Document{
			Name:   docName,
			Source: fmt.Sprintf("%s:%d", source, line),
			Text:   rec.Text,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return docs, nil
}

// IsJSONL reports whether source names a JSON Lines file.
func IsJSONL(source string) bool {
	lower := strings.TrimSuffix(strings.ToLower(source), ".gz")
	return strings.HasSuffix(lower, ".jsonl")
}

// baseName picks an output file name for a source
func baseName(source string) string {
	switch {
	case source == "-":
		return "stdin.txt"
	case fetch.IsURL(source):
		u, err := url.Parse(source)
		if err != nil {
			return "page.txt"
		}
		p := strings.Trim(u.Path, "/")
		if p == "" {
			return u.Hostname() + ".txt"
		}
		return u.Hostname() + "_" + strings.ReplaceAll(p, "/", "_")
	default:
		return strings.TrimSuffix(filepath.Base(source), ".gz")
	}
}

// fileName reduces name to the base name used on disk. Names with no
// usable base fall back to one derived from the document index.
func fileName(name string, index int) string {
	switch base := path.Base(filepath.ToSlash(name)); base {
	case ".", "..", "/":
		return fmt.Sprintf("document-%06d.txt", index)
	default:
		return base
	}
}

// uniqueName suffixes repeated names so no output file overwrites another
func uniqueName(seen map[string]bool, name string) string {
	ext := path.Ext(name)
	candidate := name
	for i := 1; seen[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), i, ext)
	}
	seen[candidate] = true
	return candidate
}

// head returns the leading bytes used for content sniffing
func head(content []byte) []byte {
	if len(content) > 512 {
		return content[:512]
	}
	return content
}
