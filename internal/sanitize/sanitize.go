// Package sanitize strips markup from untrusted request values.
package sanitize

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/BerylCAtieno/ezdocs-api/internal/pipeline"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

// StrictPolicy allows no elements at all and drops the contents of
// script, style and iframe. A Policy is safe for concurrent use.
var policy = bluemonday.StrictPolicy()

var (
	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
	newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// String removes every tag from s and returns the remaining text
// entity-escaped. String(String(s)) == String(s).
func String(s string) string {
	text := html.UnescapeString(policy.Sanitize(s))
	return escaper.Replace(newlines.Replace(text))
}

// Value sanitizes every string leaf of a decoded JSON value, keeping its shape.
// Numbers, booleans and nil are returned as is.
func Value(v any) any {
	switch t := v.(type) {
	case string:
		return String(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = String(val)
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, val := range t {
			out[i] = String(val)
		}
		return out
	default:
		return v
	}
}

// Stage returns a pipeline stage that sanitizes the given request parts in place.
func Stage(parts ...pipeline.Part) pipeline.Stage {
	return stage(Value, parts)
}

func stage(walk func(any) any, parts []pipeline.Part) pipeline.Stage {
	return func(r *pipeline.Request) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = utils.NewInternalError("Failed to sanitize request", fmt.Errorf("sanitize panic: %v", rec))
			}
		}()

		for _, part := range parts {
			r.Replace(part, walk(r.Raw(part)))
		}
		return nil
	}
}
