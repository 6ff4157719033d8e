// Package fetch opens corpus sources: standard input, http(s) URLs, local
// files, and directories of files. Gzip-compressed files are decompressed
// transparently.
package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Size limits keep a single oversized source from exhausting memory.
const (
	MaxFileSizeBytes = 50 * 1024 * 1024  // 50MB limit for files
	MaxHTTPSizeBytes = 100 * 1024 * 1024 // 100MB limit for HTTP content (may not have Content-Length)
)

// HTTPRequestTimeout bounds a single HTTP fetch.
const HTTPRequestTimeout = 30 * time.Second

var (
	HTTPDialTimeout           = HTTPRequestTimeout / 6
	HTTPTLSTimeout            = HTTPRequestTimeout / 6
	HTTPResponseHeaderTimeout = HTTPRequestTimeout / 2
)

// UserAgent is sent with every HTTP request.
const UserAgent = "winnow/0.1"

// limitedReadCloser wraps an io.ReadCloser to enforce size limits
type limitedReadCloser struct {
	io.ReadCloser
	N      int64  // max bytes remaining
	source string // for error messages
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// gzipReadCloser closes both the decompressor and the underlying file
type gzipReadCloser struct {
	*gzip.Reader
	file io.Closer
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

// httpClient is shared across fetches and safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: HTTPDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   HTTPTLSTimeout,
		ResponseHeaderTimeout: HTTPResponseHeaderTimeout,
		DisableKeepAlives:     true,
	},
}

// IsURL reports whether source is an http(s) URL.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// GetContent opens a single source:
//   - "-" reads from standard input
//   - URLs starting with "http://" or "https://" are fetched via HTTP
//   - everything else is treated as a local file path
//
// ctx allows for cancellation of HTTP requests.
func GetContent(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return &limitedReadCloser{
			ReadCloser: os.Stdin,
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case IsURL(source):
		return fetchURL(ctx, source)
	default:
		return fetchFile(source)
	}
}

// Expand replaces every directory in sources with the regular files
// beneath it, sorted by path so corpus indices are stable across runs.
// Hidden files and directories are skipped. Other sources pass through.
func Expand(sources []string) ([]string, error) {
	var out []string
	for _, source := range sources {
		if source == "-" || IsURL(source) {
			out = append(out, source)
			continue
		}

		info, err := os.Stat(source)
		if err != nil || !info.IsDir() {
			// missing files surface as per-source errors when opened
			out = append(out, source)
			continue
		}

		var files []string
		err = filepath.WalkDir(source, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path != source && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %q: %w", source, err)
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// fetchURL retrieves content from an HTTP or HTTPS URL
func fetchURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %d %s", url, resp.StatusCode, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, MaxHTTPSizeBytes)
		}
	}

	return &limitedReadCloser{
		ReadCloser: resp.Body,
		N:          MaxHTTPSizeBytes,
		source:     url,
	}, nil
}

// fetchFile opens a local file, decompressing ".gz" files
func fetchFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".gz") {
		return file, nil
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to decompress %q: %w", path, err)
	}
	// decompressed size is bounded separately from the on-disk size
	return &limitedReadCloser{
		ReadCloser: &gzipReadCloser{Reader: gz, file: file},
		N:          MaxHTTPSizeBytes,
		source:     path,
	}, nil
}
