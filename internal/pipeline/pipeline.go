// Package pipeline runs ordered request stages (sanitize, validate, ...)
// independently of the HTTP framework.
package pipeline

import "io"

// Part names a section of an incoming request.
type Part string

const (
	PartBody   Part = "body"
	PartParams Part = "params"
	PartQuery  Part = "query"
)

// Request carries the raw parts of a request through the stages, plus the
// typed values produced by validation.
type Request struct {
	Body   any
	Params map[string]any
	Query  map[string]any

	// Source is the undecoded body. A decoding stage consumes it into Body,
	// so routes that never read a body never parse one.
	Source io.Reader

	values map[Part]any
}

func NewRequest(body any, params, query map[string]any) *Request {
	if params == nil {
		params = map[string]any{}
	}
	if query == nil {
		query = map[string]any{}
	}
	return &Request{Body: body, Params: params, Query: query}
}

// Raw returns the untyped value of a part.
func (r *Request) Raw(part Part) any {
	switch part {
	case PartBody:
		return r.Body
	case PartParams:
		return r.Params
	case PartQuery:
		return r.Query
	}
	return nil
}

// Replace swaps the untyped value of a part. Params and query must stay maps.
func (r *Request) Replace(part Part, v any) {
	switch part {
	case PartBody:
		r.Body = v
	case PartParams:
		if m, ok := v.(map[string]any); ok {
			r.Params = m
		}
	case PartQuery:
		if m, ok := v.(map[string]any); ok {
			r.Query = m
		}
	}
}

// SetValue stores the validated value of a part.
func (r *Request) SetValue(part Part, v any) {
	if r.values == nil {
		r.values = make(map[Part]any)
	}
	r.values[part] = v
}

// Value returns the validated value of a part as T.
func Value[T any](r *Request, part Part) (T, bool) {
	v, ok := r.values[part].(T)
	return v, ok
}

// Stage inspects or rewrites a request. A non-nil error stops the pipeline.
type Stage func(*Request) error

type Pipeline []Stage

// Run applies the stages in order and returns the first error.
func (p Pipeline) Run(r *Request) error {
	for _, stage := range p {
		if err := stage(r); err != nil {
			return err
		}
	}
	return nil
}
