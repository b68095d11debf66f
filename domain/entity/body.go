package entity

import (
	"bytes"
	"mime"
	"strings"
)

// CapturedBody represents the immutable bytes of one request or response body
// together with the content metadata declared at capture time.
type CapturedBody struct {
	data            []byte
	contentType     string
	charset         string
	contentEncoding string
	omitted         bool
}

// NewCapturedBody creates a captured body. The data slice is copied.
func NewCapturedBody(data []byte, contentType, contentEncoding string) *CapturedBody {
	return &CapturedBody{
		data:            bytes.Clone(data),
		contentType:     contentType,
		charset:         CharsetOf(contentType),
		contentEncoding: strings.TrimSpace(contentEncoding),
	}
}

// NewOmittedBody creates a placeholder for a body that was deliberately not read
// (multipart uploads).
func NewOmittedBody(contentType string) *CapturedBody {
	return &CapturedBody{
		contentType: contentType,
		charset:     CharsetOf(contentType),
		omitted:     true,
	}
}

// Bytes returns a copy of the captured bytes.
func (b *CapturedBody) Bytes() []byte {
	if b == nil {
		return nil
	}
	return bytes.Clone(b.data)
}

// Len returns the number of captured bytes.
func (b *CapturedBody) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// IsEmpty returns true if nothing was captured.
func (b *CapturedBody) IsEmpty() bool {
	return b.Len() == 0
}

// ContentType returns the declared content type.
func (b *CapturedBody) ContentType() string {
	if b == nil {
		return ""
	}
	return b.contentType
}

// Charset returns the declared charset, or "" if none was declared.
func (b *CapturedBody) Charset() string {
	if b == nil {
		return ""
	}
	return b.charset
}

// ContentEncoding returns the declared Content-Encoding.
func (b *CapturedBody) ContentEncoding() string {
	if b == nil {
		return ""
	}
	return b.contentEncoding
}

// Omitted returns true if the body was intentionally never read.
func (b *CapturedBody) Omitted() bool {
	return b != nil && b.omitted
}

// CharsetOf extracts the charset parameter of a content type value.
func CharsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// 宽松解析：手动查找 charset=
		lower := strings.ToLower(contentType)
		idx := strings.Index(lower, "charset=")
		if idx < 0 {
			return ""
		}
		cs := contentType[idx+len("charset="):]
		if end := strings.IndexByte(cs, ';'); end >= 0 {
			cs = cs[:end]
		}
		return strings.Trim(strings.TrimSpace(cs), `"`)
	}
	return params["charset"]
}
