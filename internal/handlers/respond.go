package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
	"github.com/BerylCAtieno/ezdocs-api/internal/pipeline"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

// MaxBodySize caps JSON request bodies.
const MaxBodySize = 1 << 20 // 1MB

const genericErrorMessage = "An unexpected error occurred"

// HandlerFunc is a controller running after the request stages passed.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error

type successResponse struct {
	Status     string           `json:"status"`
	Data       any              `json:"data"`
	Message    string           `json:"message,omitempty"`
	Pagination *models.PageMeta `json:"pagination,omitempty"`
}

type errorResponse struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Responder writes the success and error envelopes. It is the single place
// where errors become HTTP responses.
type Responder struct {
	logger     *utils.Logger
	production bool
}

func NewResponder(logger *utils.Logger, production bool) *Responder {
	return &Responder{logger: logger, production: production}
}

// Handle collects the request parts, runs the stages and then fn. Any error
// from either goes to Error. The body stays undecoded unless a stage runs
// DecodeBody.
func (rs *Responder) Handle(stages pipeline.Pipeline, fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := newRequest(w, r)
		err := stages.Run(req)
		if err == nil {
			err = fn(w, r, req)
		}
		if err != nil {
			rs.Error(w, r, err)
		}
	})
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := utils.AsAppError(err)

	status := appErr.Kind.Status()
	message := appErr.Message

	if status >= http.StatusInternalServerError {
		rs.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"code", appErr.Kind.Code(),
			"error", err)
		if rs.production && appErr.Kind == utils.KindInternal {
			message = genericErrorMessage
		}
	} else {
		rs.logger.Debug("Request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"code", appErr.Kind.Code(),
			"message", message)
	}

	rs.JSON(w, status, errorResponse{
		Status:  "error",
		Code:    appErr.Kind.Code(),
		Message: message,
		Details: appErr.Details,
	})
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (rs *Responder) Data(w http.ResponseWriter, status int, data any) {
	rs.JSON(w, status, successResponse{Status: "success", Data: data})
}

func (rs *Responder) Mutation(w http.ResponseWriter, status int, data any, message string) {
	rs.JSON(w, status, successResponse{Status: "success", Data: data, Message: message})
}

func (rs *Responder) List(w http.ResponseWriter, data any, meta models.PageMeta) {
	rs.JSON(w, http.StatusOK, successResponse{Status: "success", Data: data, Pagination: &meta})
}

func (rs *Responder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// newRequest collects the path params and query of r and keeps the body
// for DecodeBody. A query key given once maps to its string, a repeated key
// to all of its values.
func newRequest(w http.ResponseWriter, r *http.Request) *pipeline.Request {
	params := map[string]any{}
	for k, v := range mux.Vars(r) {
		params[k] = v
	}

	query := map[string]any{}
	for k, v := range r.URL.Query() {
		switch len(v) {
		case 0:
		case 1:
			query[k] = v[0]
		default:
			query[k] = v
		}
	}

	req := pipeline.NewRequest(nil, params, query)
	if r.Body != nil && r.Body != http.NoBody {
		req.Source = http.MaxBytesReader(w, r.Body, MaxBodySize)
	}
	return req
}

// DecodeBody is the stage that parses the JSON body. An empty body decodes
// to nil; numbers stay json.Number.
func DecodeBody(req *pipeline.Request) error {
	if req.Source == nil {
		return nil
	}
	src := req.Source
	req.Source = nil

	data, err := io.ReadAll(src)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return utils.NewValidationError(map[string]string{"body": "request body is too large"})
		}
		return utils.NewInternalError("Failed to read request body", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var body any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return utils.NewInvalidJSONError(err)
	}
	if dec.More() {
		return utils.NewInvalidJSONError(errors.New("unexpected data after JSON value"))
	}

	req.Body = body
	return nil
}
