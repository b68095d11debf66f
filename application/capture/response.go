package capture

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"net/http"
	"strconv"

	"http-logging/domain/entity"
)

// ErrHijackNotSupported is returned by Hijack when the wrapped writer cannot be hijacked.
var ErrHijackNotSupported = errors.New("response writer does not support hijacking")

// ResponseWriter buffers everything the handler writes. Headers go straight to
// the wrapped writer's header map and are snapshotted when the status is
// written; changes made after that are discarded, as with a plain
// http.ResponseWriter. Status and body are held back until CopyBodyToResponse.
type ResponseWriter struct {
	w           http.ResponseWriter
	status      int
	wroteHeader bool
	sent        http.Header
	buf         bytes.Buffer
	copied      bool
	hijacked    bool
}

// Response wraps w. When w is already a capturing writer it is returned as is
// and owned is false: only the owner may call CopyBodyToResponse.
func Response(w http.ResponseWriter) (rw *ResponseWriter, owned bool) {
	if existing, ok := w.(*ResponseWriter); ok {
		return existing, false
	}
	return &ResponseWriter{w: w, status: http.StatusOK}, true
}

func (rw *ResponseWriter) Header() http.Header {
	return rw.w.Header()
}

func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.wroteHeader || rw.hijacked {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.sent = rw.w.Header().Clone()
}

func (rw *ResponseWriter) Write(p []byte) (int, error) {
	if rw.hijacked {
		return 0, http.ErrHijacked
	}
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.buf.Write(p)
}

// Flush is a no-op: nothing reaches the client before CopyBodyToResponse.
func (rw *ResponseWriter) Flush() {}

// Hijack delegates to the wrapped writer. A hijacked connection is no longer
// buffered and CopyBodyToResponse does nothing.
func (rw *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.w.(http.Hijacker)
	if !ok {
		return nil, nil, ErrHijackNotSupported
	}
	conn, brw, err := hj.Hijack()
	if err == nil {
		rw.hijacked = true
	}
	return conn, brw, err
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (rw *ResponseWriter) Unwrap() http.ResponseWriter {
	return rw.w
}

// Status returns the recorded status, 200 when the handler set none.
func (rw *ResponseWriter) Status() int {
	return rw.status
}

// Written reports whether the handler wrote a status or any body bytes.
func (rw *ResponseWriter) Written() bool {
	return rw.wroteHeader || rw.buf.Len() > 0
}

// Hijacked reports whether the connection was taken over.
func (rw *ResponseWriter) Hijacked() bool {
	return rw.hijacked
}

// ResponseHeader returns a copy of the headers that will reach the client.
func (rw *ResponseWriter) ResponseHeader() http.Header {
	if rw.sent != nil {
		return rw.sent.Clone()
	}
	return rw.w.Header().Clone()
}

// Captured returns the response bytes written so far.
func (rw *ResponseWriter) Captured() *entity.CapturedBody {
	h := rw.sent
	if h == nil {
		h = rw.w.Header()
	}
	return entity.NewCapturedBody(rw.buf.Bytes(), h.Get("Content-Type"), h.Get("Content-Encoding"))
}

// CopyBodyToResponse writes the recorded status and buffered body to the
// wrapped writer. Only the first call has any effect.
func (rw *ResponseWriter) CopyBodyToResponse() error {
	if rw.copied || rw.hijacked {
		return nil
	}
	rw.copied = true

	h := rw.w.Header()
	if rw.sent != nil {
		for name := range h {
			if _, ok := rw.sent[name]; !ok {
				delete(h, name)
			}
		}
		for name, values := range rw.sent {
			h[name] = values
		}
	}
	if rw.buf.Len() > 0 && h.Get("Content-Length") == "" && h.Get("Transfer-Encoding") == "" {
		h.Set("Content-Length", strconv.Itoa(rw.buf.Len()))
	}
	rw.w.WriteHeader(rw.status)
	if rw.buf.Len() == 0 {
		return nil
	}
	_, err := rw.w.Write(rw.buf.Bytes())
	return err
}
