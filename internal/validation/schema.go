package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/ezdocs-api/internal/pipeline"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

// Schema decodes one raw request part into a typed value.
type Schema struct {
	Name   string
	decode func(v *Validator, raw any, errs *Errors) (any, error)
}

// JSON builds a schema for JSON-shaped parts (body and path params).
func JSON[T any](name string) Schema {
	return Schema{
		Name: name,
		decode: func(v *Validator, raw any, errs *Errors) (any, error) {
			var out T
			if err := decodeJSON(raw, &out, errs); err != nil {
				return nil, err
			}
			if err := v.check(&out, errs); err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// Query builds a schema for query strings. Fields are matched by their
// `query` tag and start from defaults; empty values count as absent.
func Query[T any](name string, defaults T) Schema {
	return Schema{
		Name: name,
		decode: func(v *Validator, raw any, errs *Errors) (any, error) {
			out := defaults
			values, _ := raw.(map[string]any)
			decodeQuery(values, reflect.ValueOf(&out).Elem(), errs)
			if err := v.check(&out, errs); err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// Validate runs the schema against raw and returns the typed value or an
// *utils.AppError listing every failing field.
func (v *Validator) Validate(s Schema, raw any) (any, error) {
	errs := newErrors()

	out, err := s.decode(v, raw, errs)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("Failed to validate %s", s.Name), err)
	}
	if !errs.empty() {
		return nil, errs.AppError()
	}

	return out, nil
}

// Stage validates one request part and stores the typed value on the request.
func (v *Validator) Stage(part pipeline.Part, s Schema) pipeline.Stage {
	return func(r *pipeline.Request) error {
		out, err := v.Validate(s, r.Raw(part))
		if err != nil {
			return err
		}
		r.SetValue(part, out)
		return nil
	}
}

// MatchParam rejects a body whose optional field disagrees with a path param.
func MatchParam(field, param string) pipeline.Stage {
	return func(r *pipeline.Request) error {
		body, _ := r.Body.(map[string]any)
		got, present := body[field]
		if !present || got == nil {
			return nil
		}

		if got != r.Params[param] {
			return utils.NewValidationError(map[string]string{
				field: fmt.Sprintf("%s must match the %s in the path", field, param),
			})
		}
		return nil
	}
}

func decodeQuery(values map[string]any, dst reflect.Value, errs *Errors) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}

		raw, ok := values[name]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			errs.add(name, name+" must be a single value", false)
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		fv := dst.Field(i)
		switch fv.Kind() {
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				errs.add(name, name+" must be an integer", false)
				continue
			}
			fv.SetInt(n)
		case reflect.String:
			fv.SetString(s)
		default:
			errs.add(name, name+" is not supported", false)
		}
	}
}
