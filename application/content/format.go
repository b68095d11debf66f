package content

import (
	"net/http"
	"strings"

	"http-logging/application/masking"
	"http-logging/domain/entity"
)

const (
	MultipartPlaceholder = "[multipart] (files/parts omitted)"
	EmptyMarker          = "(empty)"
	FormSuppressed       = "(suppressed, see Form)"
)

// Body is a captured body after classification and decoding. Raw holds the
// bytes Text was decoded from, before charset conversion.
type Body struct {
	Kind    Kind
	Text    string
	Raw     []byte
	Charset string
	Omitted bool
}

// Form parses the body as form data. Without Raw, Text is taken as already
// decoded UTF-8.
func (b Body) Form() *entity.KeyValueBlock {
	if b.Raw != nil {
		return ParseForm(b.Raw, b.Charset)
	}
	return ParseForm([]byte(b.Text), "")
}

// Extract classifies and decodes a captured body. Multipart bodies are never
// read. Opaque bytes that are not plausibly text yield an empty Text. Compressed
// bytes are decoded only when decodeCompressed is set; otherwise, or when
// decoding fails, they are treated as binary.
func Extract(b *entity.CapturedBody, decodeCompressed bool) Body {
	if b == nil {
		return Body{}
	}
	if b.Omitted() || IsMultipart(b.ContentType()) {
		return Body{Kind: KindMultipart, Charset: b.Charset(), Omitted: true}
	}
	if b.IsEmpty() {
		return Body{Kind: Classify(b.ContentType()), Charset: b.Charset()}
	}

	data := b.Bytes()
	binary := false
	if !IsIdentity(b.ContentEncoding()) {
		binary = true
		if decodeCompressed {
			if decoded, err := Decompress(data, b.ContentEncoding()); err == nil {
				data, binary = decoded, false
			}
		}
	}

	kind := Resolve(b.ContentType(), data)
	if binary {
		return Body{Kind: kind, Charset: b.Charset()}
	}
	text := DecodeText(data, b.Charset())
	if kind == KindOpaque && !IsTextBody(text) {
		text = ""
	}
	return Body{Kind: kind, Text: text, Raw: data, Charset: b.Charset()}
}

// Options toggles formatter behaviour.
type Options struct {
	PrettyJSON  bool
	PrettyQuery bool
	PrettyForm  bool
}

// Formatter renders classified content into indented log sections. It holds
// only immutable configuration.
type Formatter struct {
	renderer *masking.Renderer
	pad      string
	opts     Options
}

// NewFormatter creates a formatter. The indent width comes from the renderer.
func NewFormatter(renderer *masking.Renderer, opts Options) *Formatter {
	return &Formatter{
		renderer: renderer,
		pad:      strings.Repeat(" ", renderer.Indent()),
		opts:     opts,
	}
}

// Pad returns one indent unit.
func (f *Formatter) Pad() string {
	return f.pad
}

// Renderer returns the underlying value renderer.
func (f *Formatter) Renderer() *masking.Renderer {
	return f.renderer
}

// Indent prefixes every continuation line of text with one indent unit.
func (f *Formatter) Indent(text string) string {
	return strings.ReplaceAll(text, "\n", "\n"+f.pad)
}

// KeyValues renders a block as "- key: value" lines, or "(empty)".
func (f *Formatter) KeyValues(block *entity.KeyValueBlock) string {
	if block.IsEmpty() {
		return f.pad + EmptyMarker + "\n"
	}
	policy := f.renderer.Policy()
	var sb strings.Builder
	for _, key := range block.Keys() {
		values := policy.MaskValues(key, block.Values(key))
		sb.WriteString(f.pad)
		sb.WriteString("- ")
		sb.WriteString(key)
		sb.WriteByte(':')
		switch len(values) {
		case 0:
		case 1:
			sb.WriteByte(' ')
			sb.WriteString(values[0])
		default:
			sb.WriteString(" [")
			sb.WriteString(strings.Join(values, ", "))
			sb.WriteByte(']')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Headers renders header lines "- Name: v1, v2" sorted by name. Sensitive
// headers show the replacement token once.
func (f *Formatter) Headers(h http.Header) string {
	block := entity.FromHeader(h)
	policy := f.renderer.Policy()
	var sb strings.Builder
	for _, name := range block.Keys() {
		value := strings.Join(block.Values(name), ", ")
		if policy.Matches(name) {
			value = policy.Replacement()
		}
		sb.WriteString(f.pad)
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// QuerySection renders the query block of a request.
func (f *Formatter) QuerySection(rawQuery, charset string) string {
	switch {
	case f.opts.PrettyQuery:
		return f.pad + "Query:\n" + f.KeyValues(ParseQuery(rawQuery, charset))
	case rawQuery != "":
		return f.pad + "QueryRaw: " + f.MaskedQuery(rawQuery, charset) + "\n"
	default:
		return f.pad + "Query: " + EmptyMarker + "\n"
	}
}

// MaskedQuery returns rawQuery with sensitive values replaced, or rawQuery
// itself when nothing needs masking.
func (f *Formatter) MaskedQuery(rawQuery, charset string) string {
	policy := f.renderer.Policy()
	if !policy.Active() || rawQuery == "" {
		return rawQuery
	}
	block := ParseQuery(rawQuery, charset)
	for _, key := range block.Keys() {
		if policy.Matches(key) {
			return EncodeMasked(block, policy)
		}
	}
	return rawQuery
}

// BodySection renders a body block in multiline layout.
func (f *Formatter) BodySection(body Body) string {
	switch {
	case body.Omitted:
		return f.pad + "Body: " + MultipartPlaceholder + "\n"
	case body.Text == "":
		return f.pad + "Body: " + EmptyMarker + "\n"
	case body.Kind == KindForm && f.opts.PrettyForm:
		return f.pad + "Form:\n" +
			f.KeyValues(body.Form()) +
			f.pad + "Body: " + FormSuppressed + "\n"
	default:
		text := f.renderer.Truncate(f.display(body, false))
		return f.pad + "Body:\n" + f.pad + f.Indent(text) + "\n"
	}
}

// Inline renders a body for single-line layout. Empty bodies yield "".
func (f *Formatter) Inline(body Body) string {
	switch {
	case body.Omitted:
		return MultipartPlaceholder
	case body.Text == "":
		return ""
	}
	text := f.renderer.Truncate(f.display(body, true))
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(text)
}

func (f *Formatter) display(body Body, compact bool) string {
	if body.Kind == KindForm {
		policy := f.renderer.Policy()
		if !policy.Active() {
			return body.Text
		}
		return EncodeMasked(body.Form(), policy)
	}
	if compact || !f.opts.PrettyJSON {
		return f.renderer.RenderBodyCompact(body.Text)
	}
	return f.renderer.RenderBody(body.Text)
}
