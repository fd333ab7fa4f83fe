package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// MaxBodyBytes bounds every request body.
const MaxBodyBytes = 1 << 20

// ErrMalformedJSON indicates a request body that is not valid JSON.
var ErrMalformedJSON = errors.New("JSON parse error")

// ErrNotAnObject indicates valid JSON whose top level is not an object.
var ErrNotAnObject = errors.New("expected a JSON object")

// Object is a decoded JSON object whose members are converted lazily, so
// each field can report its own type error.
type Object map[string]json.RawMessage

// DecodeObject reads the request body as a JSON object. An empty body is an
// empty object.
func DecodeObject(w http.ResponseWriter, r *http.Request) (Object, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, ErrMalformedJSON
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Object{}, nil
	}
	if !json.Valid(body) {
		return nil, ErrMalformedJSON
	}
	if body[0] != '{' {
		return nil, ErrNotAnObject
	}

	var obj Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, ErrMalformedJSON
	}
	return obj, nil
}

// raw returns the member name. present is false when it is missing; isNull
// reports a literal null.
func (o Object) raw(name string) (value json.RawMessage, present, isNull bool) {
	value, present = o[name]
	if !present {
		return nil, false, false
	}
	return value, true, bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// String reads a text member. Numbers are accepted and kept as written;
// booleans, arrays and objects are type errors. A null is accepted only when
// nullable, in which case it is reported as present with a nil value.
func (o Object) String(name string, nullable bool, v *domain.ValidationError) (value *string, present bool) {
	raw, present, isNull := o.raw(name)
	switch {
	case !present:
		return nil, false
	case isNull:
		if nullable {
			return nil, true
		}
		v.Add(name, domain.MsgNull)
		return nil, false
	}

	if s, ok := scalarText(raw); ok {
		return &s, true
	}

	v.Add(name, domain.MsgNotString)
	return nil, false
}

var integralDecimal = regexp.MustCompile(`\.0*$`)

// Int reads an integer member. Integral numbers such as 2.0 and numeric
// strings are accepted.
func (o Object) Int(name string, v *domain.ValidationError) (*int, bool) {
	raw, present, isNull := o.raw(name)
	switch {
	case !present:
		return nil, false
	case isNull:
		v.Add(name, domain.MsgNull)
		return nil, false
	}

	text, ok := scalarText(raw)
	if ok {
		if n, err := strconv.Atoi(integralDecimal.ReplaceAllString(text, "")); err == nil {
			return &n, true
		}
	}

	v.Add(name, domain.MsgNotInteger)
	return nil, false
}

var (
	trueValues  = map[string]bool{"t": true, "T": true, "y": true, "Y": true, "yes": true, "Yes": true, "YES": true, "true": true, "True": true, "TRUE": true, "on": true, "On": true, "ON": true, "1": true}
	falseValues = map[string]bool{"f": true, "F": true, "n": true, "N": true, "no": true, "No": true, "NO": true, "false": true, "False": true, "FALSE": true, "off": true, "Off": true, "OFF": true, "0": true}
)

// Bool reads a boolean member. JSON booleans, 1 and 0, and the usual
// spellings of yes/no, on/off and true/false are accepted.
func (o Object) Bool(name string, v *domain.ValidationError) (*bool, bool) {
	raw, present, isNull := o.raw(name)
	switch {
	case !present:
		return nil, false
	case isNull:
		v.Add(name, domain.MsgNull)
		return nil, false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b, true
	}
	if text, ok := scalarText(raw); ok {
		text = integralDecimal.ReplaceAllString(text, "")
		switch {
		case trueValues[text]:
			b = true
			return &b, true
		case falseValues[text]:
			return &b, true
		}
	}

	v.Add(name, domain.MsgNotBoolean)
	return nil, false
}

// scalarText returns the text of a JSON string or number member.
func scalarText(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

var validate = newValidator()

// newValidator reports fields by their JSON names and adds the notblank and
// username tags.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return domain.UsernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateRequest checks v against its validate tags and records each
// failure in into under the field's JSON name. Fields that already carry an
// error, such as a type error from decoding, are skipped.
func ValidateRequest(v interface{}, into *domain.ValidationError) error {
	err := validate.Struct(v)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	// A field fails on at most one tag.
	for _, fe := range fieldErrs {
		if !into.Has(fe.Field()) {
			into.Add(fe.Field(), fieldMessage(fe))
		}
	}
	return nil
}

// fieldMessage translates a failed tag into the message reported to clients.
func fieldMessage(fe validator.FieldError) string {
	n, _ := strconv.Atoi(fe.Param())
	text := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return domain.MsgRequired
	case "notblank":
		return domain.MsgBlank
	case "username":
		return domain.MsgInvalidUsername
	case "min":
		switch {
		case !text:
			return domain.MsgMinValue(n)
		case fe.Value() == "":
			return domain.MsgBlank
		default:
			return domain.MsgMinLength(n)
		}
	case "max":
		if text {
			return domain.MsgMaxLength(n)
		}
		return domain.MsgMaxValue(n)
	}
	return "Invalid value."
}
