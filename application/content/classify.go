package content

import (
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the display class of a body.
type Kind int

const (
	KindOpaque Kind = iota
	KindJSON
	KindForm
	KindMultipart
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "JSON"
	case KindForm:
		return "FORM_URLENCODED"
	case KindMultipart:
		return "MULTIPART"
	default:
		return "OPAQUE"
	}
}

// Classify maps a declared content type to a Kind. Matching is case-insensitive.
func Classify(contentType string) Kind {
	switch {
	case IsJSON(contentType):
		return KindJSON
	case IsForm(contentType):
		return KindForm
	case IsMultipart(contentType):
		return KindMultipart
	default:
		return KindOpaque
	}
}

// IsJSON reports application/json or any +json media type.
func IsJSON(contentType string) bool {
	lower := strings.ToLower(strings.TrimSpace(contentType))
	if lower == "" {
		return false
	}
	if strings.Contains(lower, "application/json") {
		return true
	}
	mediaType, _, _ := strings.Cut(lower, ";")
	return strings.HasSuffix(strings.TrimSpace(mediaType), "+json")
}

// IsForm reports application/x-www-form-urlencoded.
func IsForm(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "application/x-www-form-urlencoded")
}

// IsMultipart reports any multipart/* media type.
func IsMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "multipart/")
}

// Sniff detects the media type of data. Used only when nothing was declared.
func Sniff(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return mimetype.Detect(data).String()
}

// Resolve classifies a body, sniffing the bytes when no content type was declared.
func Resolve(contentType string, data []byte) Kind {
	if strings.TrimSpace(contentType) == "" && len(data) > 0 {
		return Classify(Sniff(data))
	}
	return Classify(contentType)
}

// IsTextBody reports whether s is plausibly text: it must not contain control
// characters other than whitespace.
func IsTextBody(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
