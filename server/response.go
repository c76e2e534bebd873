package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sagarc03/lanshare"
)

const streamChunkSize = 8192

type header struct {
	key   string
	value string
}

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

func writeHead(b *bytes.Buffer, status int, headers []header, contentLength int64) {
	fmt.Fprintf(b, "HTTP/1.1 %d %s\r\n", status, http.StatusText(status))
	for _, h := range headers {
		fmt.Fprintf(b, "%s: %s\r\n", h.key, h.value)
	}
	b.WriteString("Content-Length: " + strconv.FormatInt(contentLength, 10) + "\r\n")
	b.WriteString("Connection: close\r\n\r\n")
}

// writeResponse sends a complete buffered response in one write.
func writeResponse(w io.Writer, status int, headers []header, body []byte) error {
	var b bytes.Buffer
	writeHead(&b, status, headers, int64(len(body)))
	b.Write(body)

	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	return nil
}

// writeFile sends the download head followed by the file content in
// fixed-size chunks. Any write error aborts the transfer.
func writeFile(w io.Writer, rd *lanshare.FileReader) error {
	var b bytes.Buffer
	writeHead(&b, http.StatusOK, []header{
		{"Content-Type", lanshare.ContentTypeFor(rd.Name)},
		{"Content-Disposition", `attachment; filename="` + rd.Name + `"`},
	}, rd.Size)

	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("write file head: %w", err)
	}

	buf := make([]byte, streamChunkSize)
	if _, err := io.CopyBuffer(struct{ io.Writer }{w}, struct{ io.Reader }{rd}, buf); err != nil {
		return fmt.Errorf("stream file: %w", err)
	}

	return nil
}
