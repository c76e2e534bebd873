package server

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const (
	readChunkSize  = 8192
	maxHeaderBytes = 16384
)

var headerTerminator = []byte("\r\n\r\n")

// Request is a parsed request head plus whatever body bytes arrived with it.
type Request struct {
	Method string
	Path   string
	// Headers has lowercased, trimmed keys. The last duplicate wins.
	Headers map[string]string
	Body    []byte
}

// Header returns the value of a header, matching name case-insensitively.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.Headers[strings.ToLower(name)]
	return v, ok
}

// ReadRequest reads from r in fixed-size chunks until the blank line ending
// the head has arrived, then parses it. Reading stops with ErrMalformedRequest
// once the accumulated data reaches the header ceiling without a terminator,
// or when the peer stops sending first.
func ReadRequest(r io.Reader) (*Request, error) {
	data := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)

	for !bytes.Contains(data, headerTerminator) {
		if len(data) >= maxHeaderBytes {
			return nil, fmt.Errorf("read request: head exceeds %d bytes: %w", maxHeaderBytes, ErrMalformedRequest)
		}

		n, err := r.Read(chunk)
		data = append(data, chunk[:n]...)

		if n == 0 || err != nil {
			if bytes.Contains(data, headerTerminator) {
				break
			}
			if err == nil {
				err = io.ErrNoProgress
			}
			return nil, fmt.Errorf("read request: %w: %w", ErrMalformedRequest, err)
		}
	}

	return ParseRequest(data)
}

// ParseRequest parses a raw request. Bytes after the first blank line are
// returned as the body. Header lines without a colon are ignored.
func ParseRequest(data []byte) (*Request, error) {
	head, body, _ := bytes.Cut(data, headerTerminator)

	lines := strings.Split(string(head), "\n")

	fields := strings.Fields(strings.TrimSuffix(lines[0], "\r"))
	if len(fields) == 0 {
		return nil, fmt.Errorf("parse request: empty request line: %w", ErrMalformedRequest)
	}

	req := &Request{
		Method:  fields[0],
		Headers: make(map[string]string),
		Body:    body,
	}

	if len(fields) > 1 {
		req.Path = fields[1]
	}

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key = strings.ToLower(strings.Trim(key, " \t"))
		req.Headers[key] = strings.Trim(value, " \t")
	}

	return req, nil
}
