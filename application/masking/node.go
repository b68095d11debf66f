package masking

import (
	"errors"
	"strings"

	"github.com/valyala/fastjson"
)

// Kind is the type of a tree node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Node is one element of the generic value tree every input is converted to
// before masking and printing. Numbers keep their literal text.
type Node struct {
	Kind   Kind
	Text   string // string value, number literal, or "true"/"false"
	Fields []Field
	Items  []*Node
}

// Field is one key/value pair of an object node. Fields keep source order and
// duplicate keys are preserved.
type Field struct {
	Key   string
	Value *Node
}

var (
	nullNode  = &Node{Kind: KindNull}
	trueNode  = &Node{Kind: KindBool, Text: "true"}
	falseNode = &Node{Kind: KindBool, Text: "false"}
)

// Null returns a null node.
func Null() *Node { return nullNode }

// Bool returns a bool node.
func Bool(b bool) *Node {
	if b {
		return trueNode
	}
	return falseNode
}

// String returns a string node.
func String(s string) *Node {
	return &Node{Kind: KindString, Text: s}
}

// Number returns a number node with the given literal.
func Number(literal string) *Node {
	return &Node{Kind: KindNumber, Text: literal}
}

// Object returns an object node with the given fields.
func Object(fields ...Field) *Node {
	return &Node{Kind: KindObject, Fields: fields}
}

// Array returns an array node.
func Array(items ...*Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

// Get returns the value of the first field named key.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

var parserPool fastjson.ParserPool

var errNotJSON = errors.New("not a JSON document")

// LikelyJSON reports whether text looks like a JSON object or array.
func LikelyJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return trimmed[0] == '{' || trimmed[0] == '['
}

// ParseJSON parses text into a tree.
func ParseJSON(text string) (*Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errNotJSON
	}
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.Parse(text)
	if err != nil {
		return nil, err
	}
	// fastjson 的 Value 在 Put 之后失效，必须先完整复制
	return fromFastJSON(v), nil
}

func fromFastJSON(v *fastjson.Value) *Node {
	switch v.Type() {
	case fastjson.TypeNull:
		return Null()
	case fastjson.TypeTrue:
		return Bool(true)
	case fastjson.TypeFalse:
		return Bool(false)
	case fastjson.TypeNumber:
		return Number(string(v.MarshalTo(nil)))
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return String(string(b))
	case fastjson.TypeArray:
		arr, _ := v.Array()
		items := make([]*Node, 0, len(arr))
		for _, item := range arr {
			items = append(items, fromFastJSON(item))
		}
		return Array(items...)
	case fastjson.TypeObject:
		obj, _ := v.Object()
		fields := make([]Field, 0, obj.Len())
		obj.Visit(func(key []byte, child *fastjson.Value) {
			fields = append(fields, Field{Key: string(key), Value: fromFastJSON(child)})
		})
		return Object(fields...)
	default:
		return Null()
	}
}
