package masking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/valyala/fastjson"

	"http-logging/domain/entity"
)

// maxDepth bounds recursion through nested []any / map[string]any values.
const maxDepth = 64

var errTooDeep = errors.New("value nested too deeply")

// KV is one entry of an Ordered object.
type KV struct {
	Key   string
	Value any
}

// Ordered is an object whose keys render in slice order. Use it to build
// descriptors whose layout matters.
type Ordered []KV

// Principal is implemented by identity objects. Only the name is rendered.
type Principal interface {
	PrincipalName() string
}

// ToTree converts v into a tree. Shapes are tested in a fixed order:
//
//	nil, *Node, Ordered, *fastjson.Value, json.RawMessage, string, bool, numbers,
//	[]byte, *multipart.FileHeader, *url.Userinfo, Principal, *http.Request,
//	http.ResponseWriter, context.Context, error, header-like maps,
//	*entity.KeyValueBlock, *entity.CapturedBody, []any, map[string]any,
//	io.Reader / io.Writer, and finally any value encoding/json can marshal.
//
// Non-serializable shapes become a small {_type, ...} descriptor. An error is
// returned only when the value cannot be represented at all.
func ToTree(v any) (*Node, error) {
	return toTree(v, 0)
}

func toTree(v any, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, errTooDeep
	}
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if x == nil {
			return Null(), nil
		}
		return x, nil
	case Ordered:
		fields := make([]Field, 0, len(x))
		for _, kv := range x {
			child, err := toTree(kv.Value, depth+1)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Key: kv.Key, Value: child})
		}
		return Object(fields...), nil
	case *fastjson.Value:
		if x == nil {
			return Null(), nil
		}
		return fromFastJSON(x), nil
	case json.RawMessage:
		if n, err := ParseJSON(string(x)); err == nil {
			return n, nil
		}
		return String(string(x)), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Number(strconv.FormatInt(int64(x), 10)), nil
	case int8:
		return Number(strconv.FormatInt(int64(x), 10)), nil
	case int16:
		return Number(strconv.FormatInt(int64(x), 10)), nil
	case int32:
		return Number(strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return Number(strconv.FormatInt(x, 10)), nil
	case uint:
		return Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint8:
		return Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint16:
		return Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(x, 10)), nil
	case float32:
		return floatNode(float64(x), 32), nil
	case float64:
		return floatNode(x, 64), nil
	case []byte:
		return descriptor("bytes", KV{"length", len(x)}), nil
	case *multipart.FileHeader:
		if x == nil {
			return Null(), nil
		}
		return descriptor("file",
			KV{"filename", x.Filename},
			KV{"size", x.Size},
			KV{"contentType", x.Header.Get("Content-Type")},
		), nil
	case *url.Userinfo:
		if x == nil {
			return Null(), nil
		}
		return descriptor("userinfo", KV{"username", x.Username()}), nil
	case Principal:
		return descriptor(fmt.Sprintf("%T", x), KV{"name", x.PrincipalName()}), nil
	case *http.Request:
		if x == nil {
			return Null(), nil
		}
		return descriptor("http.Request", KV{"method", x.Method}, KV{"uri", x.URL.RequestURI()}), nil
	case http.ResponseWriter:
		return descriptor("http.ResponseWriter"), nil
	case context.Context:
		return descriptor("context.Context"), nil
	case error:
		return descriptor(fmt.Sprintf("%T", x), KV{"message", x.Error()}), nil
	case http.Header:
		return multiValueNode(x), nil
	case url.Values:
		return multiValueNode(x), nil
	case map[string][]string:
		return multiValueNode(x), nil
	case *entity.KeyValueBlock:
		if x == nil {
			return Null(), nil
		}
		fields := make([]Field, 0, x.Len())
		for _, key := range x.Keys() {
			fields = append(fields, Field{Key: key, Value: stringsNode(x.Values(key))})
		}
		return Object(fields...), nil
	case *entity.CapturedBody:
		if x == nil {
			return Null(), nil
		}
		return descriptor("body", KV{"contentType", x.ContentType()}, KV{"length", x.Len()}), nil
	case []any:
		items := make([]*Node, 0, len(x))
		for _, item := range x {
			child, err := toTree(item, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		return Array(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			child, err := toTree(x[k], depth+1)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Key: k, Value: child})
		}
		return Object(fields...), nil
	case io.Reader:
		return descriptor(fmt.Sprintf("%T", x)), nil
	case io.Writer:
		return descriptor(fmt.Sprintf("%T", x)), nil
	}
	return fromMarshal(v)
}

func fromMarshal(v any) (*Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return ParseJSON(string(data))
}

func floatNode(f float64, bits int) *Node {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return String(strconv.FormatFloat(f, 'g', -1, bits))
	}
	return Number(strconv.FormatFloat(f, 'g', -1, bits))
}

func descriptor(typeName string, attrs ...KV) *Node {
	fields := make([]Field, 0, len(attrs)+1)
	fields = append(fields, Field{Key: "_type", Value: String(typeName)})
	for _, a := range attrs {
		child, err := toTree(a.Value, maxDepth)
		if err != nil {
			child = String(fmt.Sprint(a.Value))
		}
		fields = append(fields, Field{Key: a.Key, Value: child})
	}
	return Object(fields...)
}

func multiValueNode(m map[string][]string) *Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k, Value: stringsNode(m[k])})
	}
	return Object(fields...)
}

func stringsNode(values []string) *Node {
	items := make([]*Node, 0, len(values))
	for _, v := range values {
		items = append(items, String(v))
	}
	return Array(items...)
}
