// Package validation turns sanitized request parts into typed, validated
// values using go-playground/validator struct tags.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

type Validator struct {
	v *validator.Validate
}

// Default is shared by the routes. validator.Validate caches struct metadata
// and is safe for concurrent use.
var Default = New()

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// Registration only fails on an empty tag name.
	_ = v.RegisterValidation("iso639_1", isISO6391)
	_ = v.RegisterValidation("jsontext", isJSONText)

	return &Validator{v: v}
}

// isISO6391 accepts two-letter codes that x/text knows as a base language.
func isISO6391(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 2 {
		return false
	}
	_, err := language.ParseBase(code)
	return err == nil
}

// isJSONText accepts a raw JSON string, object, array or null.
func isJSONText(fl validator.FieldLevel) bool {
	raw := bytes.TrimSpace(fl.Field().Bytes())
	if len(raw) == 0 {
		return true
	}
	switch raw[0] {
	case '"', '{', '[':
		return true
	}
	return string(raw) == "null"
}

// idTags are the rules whose failure means a malformed identifier.
var idTags = map[string]bool{"uuid": true, "uuid4": true}

// Errors collects field failures keyed by field path.
type Errors struct {
	Fields map[string]string
	ids    map[string]bool
}

func newErrors() *Errors {
	return &Errors{Fields: map[string]string{}, ids: map[string]bool{}}
}

func (e *Errors) add(field, msg string, isID bool) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = msg
	e.ids[field] = isID
}

func (e *Errors) empty() bool {
	return len(e.Fields) == 0
}

// AppError reports INVALID_ID_FORMAT when every failing field is an
// identifier format failure, VALIDATION_ERROR otherwise.
func (e *Errors) AppError() *utils.AppError {
	onlyIDs := true
	for field := range e.Fields {
		if !e.ids[field] {
			onlyIDs = false
			break
		}
	}
	if onlyIDs {
		return utils.NewInvalidIDError(e.Fields)
	}
	return utils.NewValidationError(e.Fields)
}

// check runs the validate tags of s and records each failure.
func (v *Validator) check(s any, errs *Errors) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %T: %w", s, err)
	}

	for _, fe := range verrs {
		errs.add(fe.Field(), message(fe), idTags[fe.Tag()])
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isText := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid", "uuid4":
		return field + " must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, quoteList(fe.Param()))
	case "min":
		if isText && fe.Param() == "1" {
			return field + " must not be empty"
		}
		if isText {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "iso639_1":
		return field + " must be a two-letter ISO 639-1 language code"
	case "jsontext":
		return field + " must be a JSON string, object, array or null"
	default:
		return field + " is invalid"
	}
}

// quoteList renders "a b c" as "'a', 'b', 'c'".
func quoteList(param string) string {
	values := strings.Fields(param)
	for i, v := range values {
		values[i] = "'" + v + "'"
	}
	return strings.Join(values, ", ")
}

// decodeJSON re-encodes a sanitized JSON value into dst. Type mismatches
// become field errors instead of failing the whole request.
func decodeJSON(raw any, dst any, errs *Errors) error {
	if raw == nil {
		raw = map[string]any{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("failed to re-encode request part: %w", err)
	}

	err := json.Unmarshal(buf.Bytes(), dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			errs.add("body", "must be a JSON object", false)
			return nil
		}
		errs.add(typeErr.Field, fmt.Sprintf("%s must be %s", typeErr.Field, describe(typeErr.Type)), false)
		return nil
	}

	return fmt.Errorf("failed to decode request part: %w", err)
}

func describe(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}
