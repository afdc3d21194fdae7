package reader

import (
	"os"
	"strings"

	apperr "log-analyzer/internal/errors"
)

// Options configures how a log file is decoded.
type Options struct {
	// Encoding is a WHATWG encoding label; empty means utf-8.
	Encoding string
	// Errors selects the treatment of undecodable bytes; empty means ignore.
	Errors DecodeMode
}

// Reader loads whole log files into memory.
type Reader struct {
	dec *decoder
}

// New builds a Reader from opts.
func New(opts Options) (*Reader, error) {
	mode, err := ParseDecodeMode(string(opts.Errors))
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(opts.Encoding, mode)
	if err != nil {
		return nil, err
	}
	return &Reader{dec: dec}, nil
}

// Read returns the decoded content of path. Missing files fail with
// KindNotFound, unreadable ones with KindPermission.
func (r *Reader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.FromFS("read", path, err)
	}
	return r.dec.decode(path, data)
}

// ReadFile reads path as utf-8, dropping invalid bytes.
func ReadFile(path string) (string, error) {
	r, err := New(Options{})
	if err != nil {
		return "", err
	}
	return r.Read(path)
}

// CountLines counts lines the way universal-newline readers do: "\n",
// "\r\n" and a lone "\r" all end a line, and a trailing partial line counts.
func CountLines(content string) int {
	n := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			n++
		case '\r':
			n++
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
		}
	}
	if content != "" && !strings.HasSuffix(content, "\n") && !strings.HasSuffix(content, "\r") {
		n++
	}
	return n
}
