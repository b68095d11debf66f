package capture

import (
	"bytes"
	"io"
	"net/http"

	"http-logging/application/content"
	"http-logging/domain/entity"
)

// replayBody hands the captured bytes to the handler, followed by the read
// error hit during capture (or io.EOF).
type replayBody struct {
	reader   *bytes.Reader
	captured *entity.CapturedBody
	err      error
	orig     io.Closer
}

func (b *replayBody) Read(p []byte) (int, error) {
	n, err := b.reader.Read(p)
	if err == io.EOF && b.err != nil {
		return n, b.err
	}
	return n, err
}

func (b *replayBody) Close() error {
	if b.orig == nil {
		return nil
	}
	return b.orig.Close()
}

// Request reads r.Body once into an immutable buffer and replaces r.Body with a
// replay of exactly those bytes, so the handler observes the original stream.
// A read error is returned and also replayed to the handler after the bytes
// read so far. Multipart bodies are never read; they get an omitted placeholder.
// A body that was already captured is reused.
func Request(r *http.Request) (*entity.CapturedBody, error) {
	contentType := r.Header.Get("Content-Type")
	contentEncoding := r.Header.Get("Content-Encoding")

	if existing, ok := r.Body.(*replayBody); ok {
		return existing.captured, existing.err
	}
	if content.IsMultipart(contentType) {
		return entity.NewOmittedBody(contentType), nil
	}
	if r.Body == nil || r.Body == http.NoBody {
		return entity.NewCapturedBody(nil, contentType, contentEncoding), nil
	}

	data, err := io.ReadAll(r.Body)
	captured := entity.NewCapturedBody(data, contentType, contentEncoding)
	r.Body = &replayBody{
		reader:   bytes.NewReader(data),
		captured: captured,
		err:      err,
		orig:     r.Body,
	}
	return captured, err
}
