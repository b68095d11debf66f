package masking

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"http-logging/domain/entity"
)

func testPolicy() Policy {
	return NewPolicy(true, []string{"password", "Authorization", "token"}, "****")
}

func TestPolicy_Matches(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		key      string
		expected bool
	}{
		{"password", true},
		{"PASSWORD", true},
		{"Password", true},
		{"authorization", true},
		{"passwordHint", false},
		{"user", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Matches(tt.key))
		})
	}
}

func TestPolicy_DisabledOrEmpty(t *testing.T) {
	assert.False(t, NewPolicy(false, []string{"password"}, "x").Matches("password"))
	assert.False(t, NewPolicy(true, nil, "x").Active())
	assert.False(t, NewPolicy(true, []string{"  "}, "x").Active())
	assert.Equal(t, DefaultReplacement, NewPolicy(true, []string{"a"}, "").Replacement())
}

func TestPolicy_MaskValues(t *testing.T) {
	p := testPolicy()
	assert.Equal(t, []string{"****", "****"}, p.MaskValues("Token", []string{"a", "b"}))
	assert.Equal(t, []string{"a"}, p.MaskValues("tag", []string{"a"}))
}

func TestMask_ReplacesMatchedFieldsAtAnyDepth(t *testing.T) {
	tree, err := ParseJSON(`{"user":{"name":"kim","Password":"s3cret"},"items":[{"token":"t1"},{"token":"t2","id":1}]}`)
	require.NoError(t, err)

	out := Print(Mask(tree, testPolicy()), 2)

	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "t1")
	assert.NotContains(t, out, "t2")
	assert.Contains(t, out, `"Password": "****"`)
	assert.Contains(t, out, `"name": "kim"`)
	assert.Contains(t, out, `"id": 1`)
}

func TestMask_DoesNotRecurseIntoMatchedValue(t *testing.T) {
	tree, err := ParseJSON(`{"password":{"old":"a","new":"b"},"keep":{"password":"c"}}`)
	require.NoError(t, err)

	masked := Mask(tree, testPolicy())

	pw := masked.Get("password")
	require.NotNil(t, pw)
	assert.Equal(t, KindString, pw.Kind)
	assert.Equal(t, "****", pw.Text)
	assert.Equal(t, "****", masked.Get("keep").Get("password").Text)
}

func TestMask_PreservesShapeAndInput(t *testing.T) {
	src := `{"a":[1,2,{"token":"x"}],"b":{"c":null,"d":true}}`
	tree, err := ParseJSON(src)
	require.NoError(t, err)
	before := Print(tree, 0)

	masked := Mask(tree, testPolicy())

	assert.Equal(t, before, Print(tree, 0), "input tree must not be modified")
	require.Equal(t, KindObject, masked.Kind)
	assert.Len(t, masked.Fields, 2)
	assert.Len(t, masked.Get("a").Items, 3)
	assert.Len(t, masked.Get("b").Fields, 2)
}

func TestMask_DuplicateKeysAreAllMasked(t *testing.T) {
	tree, err := ParseJSON(`{"password":"one","password":"two"}`)
	require.NoError(t, err)

	out := Print(Mask(tree, testPolicy()), 2)

	assert.NotContains(t, out, "one")
	assert.NotContains(t, out, "two")
	assert.Equal(t, 2, strings.Count(out, "****"))
}

func TestPrint_RoundTrip(t *testing.T) {
	inputs := []string{
		`{"b":1,"a":[true,false,null],"c":{"d":"e\n\"q\"\\"},"n":-1.5e10}`,
		`[{"x":"\u0001ctl","y":"한글"},[],{}]`,
		`{"password":{"nested":[1,2]},"z":0.10}`,
	}
	for _, in := range inputs {
		tree, err := ParseJSON(in)
		require.NoError(t, err)
		masked := Mask(tree, testPolicy())

		printed := Print(masked, 2)
		reparsed, err := ParseJSON(printed)
		require.NoError(t, err, printed)

		assert.Equal(t, masked, reparsed)
	}
}

func TestPrint_LayoutAndOrder(t *testing.T) {
	tree, err := ParseJSON(`{"z":1,"a":{"k":[1,"v"]},"e":[],"o":{}}`)
	require.NoError(t, err)

	expected := "{\n" +
		"  \"z\": 1,\n" +
		"  \"a\": {\n" +
		"    \"k\": [\n" +
		"      1,\n" +
		"      \"v\"\n" +
		"    ]\n" +
		"  },\n" +
		"  \"e\": [],\n" +
		"  \"o\": {}\n" +
		"}"
	assert.Equal(t, expected, Print(tree, 2))
	assert.Contains(t, Print(tree, 4), "\n    \"z\": 1")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab"+TruncationMarker, Truncate("abc", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "한글"+TruncationMarker, Truncate("한글입니다", 2))

	for n := 0; n < 40; n++ {
		s := strings.Repeat("x", n)
		out := Truncate(s, 20)
		if n > 20 {
			assert.Equal(t, 20+utf8.RuneCountInString(TruncationMarker), utf8.RuneCountInString(out))
			assert.True(t, strings.HasSuffix(out, TruncationMarker))
		} else {
			assert.Equal(t, s, out)
		}
	}
}

type account struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type user struct{ name string }

func (u *user) PrincipalName() string { return u.name }

type brokenPrincipal struct{}

func (brokenPrincipal) PrincipalName() string { panic("identity lookup failed") }

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(testPolicy(), 2, 2000)

	t.Run("struct keeps field order and masks", func(t *testing.T) {
		out := r.Render(account{ID: 7, Name: "kim", Password: "hunter2"})
		assert.NotContains(t, out, "hunter2")
		assert.Less(t, strings.Index(out, `"id"`), strings.Index(out, `"name"`))
		assert.Contains(t, out, `"password": "****"`)
	})

	t.Run("json text is parsed", func(t *testing.T) {
		out := r.Render(`{"token":"abc","ok":true}`)
		assert.Equal(t, "{\n  \"token\": \"****\",\n  \"ok\": true\n}", out)
	})

	t.Run("plain string is quoted", func(t *testing.T) {
		assert.Equal(t, `"hello"`, r.Render("hello"))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, "null", r.Render(nil))
	})

	t.Run("argument list", func(t *testing.T) {
		out := r.Render([]any{"id-1", map[string]any{"password": "p", "n": 2}, 3.5})
		assert.NotContains(t, out, `"p"`)
		assert.Contains(t, out, `3.5`)
	})

	t.Run("bytes descriptor", func(t *testing.T) {
		out := r.Render([]byte("raw payload"))
		assert.Contains(t, out, `"_type": "bytes"`)
		assert.Contains(t, out, `"length": 11`)
		assert.NotContains(t, out, "raw payload")
	})

	t.Run("file upload descriptor", func(t *testing.T) {
		fh := &multipart.FileHeader{Filename: "a.png", Size: 42, Header: textproto.MIMEHeader{"Content-Type": {"image/png"}}}
		out := r.Render(fh)
		assert.Contains(t, out, `"_type": "file"`)
		assert.Contains(t, out, `"filename": "a.png"`)
		assert.Contains(t, out, `"contentType": "image/png"`)
	})

	t.Run("principal descriptor", func(t *testing.T) {
		out := r.Render(&user{name: "admin"})
		assert.Contains(t, out, `"name": "admin"`)
		out = r.Render(url.UserPassword("bob", "pw"))
		assert.Contains(t, out, `"username": "bob"`)
		assert.NotContains(t, out, "pw")
	})

	t.Run("header masking", func(t *testing.T) {
		h := http.Header{"Authorization": {"Bearer x"}, "Accept": {"*/*"}}
		out := r.Render(h)
		assert.NotContains(t, out, "Bearer")
		assert.Contains(t, out, `"*/*"`)
	})

	t.Run("key value block keeps order", func(t *testing.T) {
		kv := entity.NewKeyValueBlock()
		kv.Add("b", "1")
		kv.Add("a", "2")
		out := r.Render(kv)
		assert.Less(t, strings.Index(out, `"b"`), strings.Index(out, `"a"`))
	})

	t.Run("error descriptor", func(t *testing.T) {
		out := r.Render(errors.New("boom"))
		assert.Contains(t, out, `"message": "boom"`)
	})

	t.Run("ordered descriptor", func(t *testing.T) {
		out := r.Render(Ordered{{"z", 1}, {"a", 2}, {"token", "t"}})
		assert.Less(t, strings.Index(out, `"z"`), strings.Index(out, `"a"`))
		assert.Contains(t, out, `"token": "****"`)
	})
}

func TestRenderer_NeverPanics(t *testing.T) {
	r := NewRenderer(testPolicy(), 2, 30)

	ch := make(chan int)
	assert.Equal(t, Truncate(fmt.Sprintf("%v", ch), 30), r.Render(ch))

	fn := func() {}
	assert.NotPanics(t, func() { r.Render(fn) })

	assert.NotPanics(t, func() {
		out := r.Render(brokenPrincipal{})
		assert.NotEmpty(t, out)
	})

	var deep any = "leaf"
	for i := 0; i < 100; i++ {
		deep = []any{deep}
	}
	assert.NotPanics(t, func() { r.Render(deep) })
}

func TestRenderer_TruncatesAfterPrinting(t *testing.T) {
	r := NewRenderer(testPolicy(), 2, 10)
	out := r.Render(map[string]any{"a": strings.Repeat("y", 50)})
	assert.True(t, strings.HasSuffix(out, TruncationMarker))
	assert.Equal(t, 10+utf8.RuneCountInString(TruncationMarker), utf8.RuneCountInString(out))
}

func TestRenderer_RenderBody(t *testing.T) {
	r := NewRenderer(testPolicy(), 2, 2000)

	assert.Equal(t, "{\n  \"password\": \"****\"\n}", r.RenderBody(`{"password":"x"}`))
	assert.Equal(t, `{"broken":`, r.RenderBody(`{"broken":`))
	assert.Equal(t, "plain text", r.RenderBody("plain text"))
	assert.Equal(t, "", r.RenderBody(""))
}

func TestCompact(t *testing.T) {
	tree, err := ParseJSON(`{ "a" : [1, {"token": "x"}], "b": {} }`)
	require.NoError(t, err)

	assert.Equal(t, `{"a":[1,{"token":"****"}],"b":{}}`, Compact(Mask(tree, testPolicy())))

	r := NewRenderer(testPolicy(), 2, 0)
	assert.Equal(t, `{"password":"****"}`, r.RenderBodyCompact(`{"password": "x"}`))
	assert.Equal(t, "not json", r.RenderBodyCompact("not json"))
}
