package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) (Object, error) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return DecodeObject(httptest.NewRecorder(), r)
}

func TestDecodeObject(t *testing.T) {
	obj, err := decode(t, "")
	require.NoError(t, err)
	assert.Empty(t, obj, "empty body is an empty object")

	obj, err = decode(t, `{"title": "x"}`)
	require.NoError(t, err)
	assert.Contains(t, obj, "title")

	_, err = decode(t, `{"title": `)
	assert.ErrorIs(t, err, ErrMalformedJSON)

	_, err = decode(t, `["title"]`)
	assert.ErrorIs(t, err, ErrNotAnObject)

	_, err = decode(t, `"title"`)
	assert.ErrorIs(t, err, ErrNotAnObject)
}

func TestObjectString(t *testing.T) {
	obj, err := decode(t, `{"s": "hi", "n": 12, "null": null, "b": true, "a": [1]}`)
	require.NoError(t, err)

	var v domain.ValidationError

	s, present := obj.String("s", false, &v)
	require.True(t, present)
	assert.Equal(t, "hi", *s)

	s, present = obj.String("n", false, &v)
	require.True(t, present)
	assert.Equal(t, "12", *s)

	s, present = obj.String("missing", false, &v)
	assert.False(t, present)
	assert.Nil(t, s)

	s, present = obj.String("null", true, &v)
	assert.True(t, present, "nullable null is present")
	assert.Nil(t, s)
	assert.False(t, v.Has("null"))

	_, present = obj.String("null", false, &v)
	assert.False(t, present)

	obj.String("b", false, &v)
	obj.String("a", false, &v)

	assert.Equal(t, map[string][]string{
		"null": {domain.MsgNull},
		"b":    {domain.MsgNotString},
		"a":    {domain.MsgNotString},
	}, v.Fields)
}

func TestObjectInt(t *testing.T) {
	obj, err := decode(t, `{"i": 2, "f": 3.0, "s": "1", "half": 2.5, "word": "two", "b": true, "null": null}`)
	require.NoError(t, err)

	var v domain.ValidationError
	for name, want := range map[string]int{"i": 2, "f": 3, "s": 1} {
		n, present := obj.Int(name, &v)
		require.True(t, present, name)
		assert.Equal(t, want, *n, name)
	}
	for _, name := range []string{"half", "word", "b"} {
		_, present := obj.Int(name, &v)
		assert.False(t, present, name)
		assert.Equal(t, []string{domain.MsgNotInteger}, v.Fields[name], name)
	}
	obj.Int("null", &v)
	assert.Equal(t, []string{domain.MsgNull}, v.Fields["null"])
}

func TestObjectBool(t *testing.T) {
	obj, err := decode(t, `{"t": true, "f": false, "one": 1, "zero": "0", "yes": "yes", "off": "Off", "maybe": "maybe", "two": 2}`)
	require.NoError(t, err)

	var v domain.ValidationError
	for name, want := range map[string]bool{"t": true, "f": false, "one": true, "zero": false, "yes": true, "off": false} {
		b, present := obj.Bool(name, &v)
		require.True(t, present, name)
		assert.Equal(t, want, *b, name)
	}
	for _, name := range []string{"maybe", "two"} {
		_, present := obj.Bool(name, &v)
		assert.False(t, present, name)
		assert.Equal(t, []string{domain.MsgNotBoolean}, v.Fields[name], name)
	}
}

type validatedBody struct {
	Name     *string `json:"name" validate:"required,min=1,max=5,username"`
	Token    *string `json:"token" validate:"omitempty,notblank"`
	Code     *string `json:"code" validate:"omitempty,min=3"`
	Level    *int    `json:"level" validate:"omitempty,min=1,max=3"`
	Internal *string `json:"-" validate:"omitempty,max=1"`
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }

func TestValidateRequest(t *testing.T) {
	cases := []struct {
		name string
		body validatedBody
		want map[string][]string
	}{
		{
			name: "valid",
			body: validatedBody{Name: strPtr("bob"), Level: intPtr(2)},
		},
		{
			name: "missing required field",
			body: validatedBody{},
			want: map[string][]string{"name": {domain.MsgRequired}},
		},
		{
			name: "empty string is blank",
			body: validatedBody{Name: strPtr("")},
			want: map[string][]string{"name": {domain.MsgBlank}},
		},
		{
			name: "too long",
			body: validatedBody{Name: strPtr("abcdef")},
			want: map[string][]string{"name": {domain.MsgMaxLength(5)}},
		},
		{
			name: "characters outside the username set",
			body: validatedBody{Name: strPtr("a b")},
			want: map[string][]string{"name": {domain.MsgInvalidUsername}},
		},
		{
			name: "whitespace only is blank",
			body: validatedBody{Name: strPtr("bob"), Token: strPtr("  ")},
			want: map[string][]string{"token": {domain.MsgBlank}},
		},
		{
			name: "short string",
			body: validatedBody{Name: strPtr("bob"), Code: strPtr("ab")},
			want: map[string][]string{"code": {domain.MsgMinLength(3)}},
		},
		{
			name: "number bounds",
			body: validatedBody{Name: strPtr("bob"), Level: intPtr(0)},
			want: map[string][]string{"level": {domain.MsgMinValue(1)}},
		},
		{
			name: "number above bound",
			body: validatedBody{Name: strPtr("bob"), Level: intPtr(4)},
			want: map[string][]string{"level": {domain.MsgMaxValue(3)}},
		},
		{
			name: "several fields",
			body: validatedBody{Name: strPtr(""), Level: intPtr(9)},
			want: map[string][]string{
				"name":  {domain.MsgBlank},
				"level": {domain.MsgMaxValue(3)},
			},
		},
		{
			name: "field without a json name",
			body: validatedBody{Name: strPtr("bob"), Internal: strPtr("xy")},
			want: map[string][]string{"Internal": {domain.MsgMaxLength(1)}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v domain.ValidationError
			require.NoError(t, ValidateRequest(&tc.body, &v))
			if tc.want == nil {
				assert.NoError(t, v.Err())
				return
			}
			assert.Equal(t, tc.want, v.Fields)
		})
	}
}

func TestValidateRequestKeepsDecodeErrors(t *testing.T) {
	var v domain.ValidationError
	v.Add("name", domain.MsgNotString)

	require.NoError(t, ValidateRequest(&validatedBody{Level: intPtr(5)}, &v))
	assert.Equal(t, []string{domain.MsgNotString}, v.Fields["name"])
	assert.Equal(t, []string{domain.MsgMaxValue(3)}, v.Fields["level"])
}

func TestValidateRequestRejectsNonStruct(t *testing.T) {
	var v domain.ValidationError
	assert.Error(t, ValidateRequest("not a struct", &v))
}
