package masking

import "fmt"

// Renderer turns values into bounded, masked, indented text. It holds only
// immutable configuration and is safe for concurrent use.
type Renderer struct {
	policy    Policy
	indent    int
	maxLength int
}

// NewRenderer creates a renderer. maxLength <= 0 disables truncation.
func NewRenderer(policy Policy, indent, maxLength int) *Renderer {
	if indent < 0 {
		indent = 0
	}
	return &Renderer{policy: policy, indent: indent, maxLength: maxLength}
}

// Policy returns the masking policy.
func (r *Renderer) Policy() Policy {
	return r.policy
}

// Indent returns the indent width.
func (r *Renderer) Indent() int {
	return r.indent
}

// MaxLength returns the truncation limit.
func (r *Renderer) MaxLength() int {
	return r.maxLength
}

// Render converts v to a tree, masks it, pretty-prints it and truncates the
// result. A top-level string holding a JSON object or array is parsed first.
// Render never panics: values that cannot be converted fall back to their
// default %v form, truncated the same way.
func (r *Renderer) Render(v any) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = r.fallback(v)
		}
	}()

	if s, ok := v.(string); ok && LikelyJSON(s) {
		if tree, err := ParseJSON(s); err == nil {
			return r.Truncate(Print(Mask(tree, r.policy), r.indent))
		}
	}
	tree, err := ToTree(v)
	if err != nil {
		return r.fallback(v)
	}
	return r.Truncate(Print(Mask(tree, r.policy), r.indent))
}

// RenderBody pretty-prints and masks body text when it is a JSON object or
// array. Anything else, including malformed JSON, is returned as is. The
// result is not truncated.
func (r *Renderer) RenderBody(body string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = body
		}
	}()

	if !LikelyJSON(body) {
		return body
	}
	tree, err := ParseJSON(body)
	if err != nil {
		return body
	}
	return Print(Mask(tree, r.policy), r.indent)
}

// RenderBodyCompact is RenderBody with single-line output.
func (r *Renderer) RenderBodyCompact(body string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = body
		}
	}()

	if !LikelyJSON(body) {
		return body
	}
	tree, err := ParseJSON(body)
	if err != nil {
		return body
	}
	return Compact(Mask(tree, r.policy))
}

// Truncate applies the configured length limit.
func (r *Renderer) Truncate(s string) string {
	return Truncate(s, r.maxLength)
}

func (r *Renderer) fallback(v any) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = r.Truncate(fmt.Sprintf("%T", v))
		}
	}()
	return r.Truncate(fmt.Sprintf("%v", v))
}
