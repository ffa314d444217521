package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/ezdocs-api/internal/config"
	"github.com/BerylCAtieno/ezdocs-api/internal/db/dbtest"
	"github.com/BerylCAtieno/ezdocs-api/internal/repository"
	"github.com/BerylCAtieno/ezdocs-api/internal/services"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

type envelope struct {
	Status     string            `json:"status"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details"`
	Data       json.RawMessage   `json:"data"`
	Pagination *struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Pages int `json:"pages"`
	} `json:"pagination"`
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		Version:            "9.9.9",
		RequestTimeout:     5 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	conn := dbtest.New(t)
	logger := utils.NewNopLogger()
	docs := services.NewDocumentService(repository.NewDocumentRepository(conn), logger)
	persons := services.NewPersonService(repository.NewPersonRepository(conn), repository.NewAuthorRepository(conn), logger)

	return NewRouter(docs, persons, testConfig(), logger)
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type docData struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Keywords  *string `json:"keywords"`
	AISummary *string `json:"ai_summary"`
}

func createDocument(t *testing.T, h http.Handler, title string) docData {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/documents", map[string]any{"title": title, "type": "paper"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[docData](t, env)
}

func createPerson(t *testing.T, h http.Handler, last string) string {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/persons", map[string]any{"last_name": last})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[struct {
		ID string `json:"id"`
	}](t, env).ID
}

func TestCreateAndGetDocument(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodPost, "/api/documents", map[string]any{
		"title":    "Test Paper",
		"type":     "paper",
		"year":     2023,
		"language": "en",
		"keywords": []string{"go", "rest"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.Message)

	created := decodeData[docData](t, env)
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	require.NotNil(t, created.Keywords)
	assert.Equal(t, `["go","rest"]`, *created.Keywords)

	rec, env = do(t, h, http.MethodGet, "/api/documents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[docData](t, env)
	assert.Equal(t, "Test Paper", got.Title)
	assert.Equal(t, "paper", got.Type)
	assert.Nil(t, got.AISummary)
	assert.Empty(t, env.Message)
}

func TestCreateDocumentSanitizesInput(t *testing.T) {
	h := newTestServer(t)

	doc := createDocument(t, h, `<script>alert("xss")</script>Safe <b>Title</b> & more`)
	assert.Equal(t, "Safe Title &amp; more", doc.Title)
}

func TestCreateDocumentValidation(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodPost, "/api/documents", map[string]any{"type": "paper"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Contains(t, env.Details, "title")

	rec, env = do(t, h, http.MethodPost, "/api/documents", map[string]any{"title": "x", "type": "paper", "year": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Contains(t, env.Details, "year")
}

func TestInvalidJSON(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodPost, "/api/documents", `{"title": "x",`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", env.Code)
}

func TestInvalidIDShortCircuits(t *testing.T) {
	// Nil services panic if reached; the pipeline must stop first.
	h := NewRouter(nil, nil, testConfig(), utils.NewNopLogger())

	for _, path := range []string{"/api/documents/not-a-uuid", "/api/persons/123", "/api/persons/xyz/documents"} {
		rec, env := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "INVALID_ID_FORMAT", env.Code, path)
		assert.Contains(t, env.Details, "id", path)
	}
}

func TestNotFoundCodes(t *testing.T) {
	h := newTestServer(t)
	missing := uuid.NewString()

	tests := []struct {
		method string
		path   string
		body   any
		code   string
	}{
		{http.MethodGet, "/api/documents/" + missing, nil, "DOCUMENT_NOT_FOUND"},
		{http.MethodPut, "/api/documents/" + missing, map[string]any{"title": "x"}, "DOCUMENT_NOT_FOUND"},
		{http.MethodDelete, "/api/documents/" + missing, nil, "DOCUMENT_NOT_FOUND"},
		{http.MethodGet, "/api/persons/" + missing, nil, "PERSON_NOT_FOUND"},
		{http.MethodPut, "/api/persons/" + missing, map[string]any{"last_name": "x"}, "PERSON_NOT_FOUND"},
		{http.MethodDelete, "/api/persons/" + missing, nil, "PERSON_NOT_FOUND"},
		{http.MethodGet, "/api/persons/" + missing + "/documents", nil, "PERSON_NOT_FOUND"},
		{http.MethodDelete, "/api/persons/" + missing + "/documents/" + uuid.NewString(), nil, "RESOURCE_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec, env := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestListDocumentsPagination(t *testing.T) {
	h := newTestServer(t)

	for i := 0; i < 25; i++ {
		createDocument(t, h, fmt.Sprintf("doc %d", i))
	}

	rec, env := do(t, h, http.MethodGet, "/api/documents?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 25, env.Pagination.Total)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 10, env.Pagination.Limit)
	assert.Equal(t, 3, env.Pagination.Pages)

	items := decodeData[[]map[string]any](t, env)
	assert.Len(t, items, 10)
	// List rows are summaries.
	assert.NotContains(t, items[0], "abstract")
	assert.Contains(t, items[0], "title")

	rec, env = do(t, h, http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, env.Pagination.Limit)
	assert.Equal(t, 1, env.Pagination.Page)

	rec, env = do(t, h, http.MethodGet, "/api/documents?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
}

func TestEmptyListHasZeroPages(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/api/persons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.Pagination.Total)
	assert.Equal(t, 0, env.Pagination.Pages)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestUpdateAndDeleteDocument(t *testing.T) {
	h := newTestServer(t)
	doc := createDocument(t, h, "Draft")

	rec, env := do(t, h, http.MethodPut, "/api/documents/"+doc.ID, map[string]any{"abstract": "Now with abstract"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[map[string]any](t, env)
	assert.Equal(t, "Draft", updated["title"])
	assert.Equal(t, "Now with abstract", updated["abstract"])

	rec, env = do(t, h, http.MethodPut, "/api/documents/"+doc.ID, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec, _ = do(t, h, http.MethodGet, "/api/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPersonSearch(t *testing.T) {
	h := newTestServer(t)
	createPerson(t, h, "Smith")
	createPerson(t, h, "Jones")

	for _, param := range []string{"search", "q"} {
		rec, env := do(t, h, http.MethodGet, "/api/persons?"+param+"=smi", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, env.Pagination.Total, param)
	}
}

func TestPersonDocumentAssociations(t *testing.T) {
	h := newTestServer(t)
	personID := createPerson(t, h, "Lamport")
	doc := createDocument(t, h, "Time, Clocks")
	base := "/api/persons/" + personID + "/documents"

	rec, env := do(t, h, http.MethodPost, base, map[string]any{"document_id": doc.ID, "order": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assoc := decodeData[map[string]any](t, env)
	assert.Equal(t, personID, assoc["person_id"])
	assert.Equal(t, float64(1), assoc["order"])

	t.Run("duplicate", func(t *testing.T) {
		rec, env := do(t, h, http.MethodPost, base, map[string]any{"document_id": doc.ID, "order": 2})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "UNIQUE_CONSTRAINT", env.Code)
	})

	t.Run("missing document", func(t *testing.T) {
		rec, env := do(t, h, http.MethodPost, base, map[string]any{"document_id": uuid.NewString(), "order": 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "FOREIGN_KEY_CONSTRAINT", env.Code)
	})

	t.Run("person_id must match path", func(t *testing.T) {
		rec, env := do(t, h, http.MethodPost, base, map[string]any{
			"document_id": doc.ID, "order": 1, "person_id": uuid.NewString(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
		assert.Contains(t, env.Details, "person_id")
	})

	t.Run("order must be positive", func(t *testing.T) {
		rec, env := do(t, h, http.MethodPost, base, map[string]any{"document_id": doc.ID, "order": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Details, "order")
	})

	t.Run("list", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, env.Pagination.Total)

		rows := decodeData[[]struct {
			DocumentID string  `json:"document_id"`
			Order      int     `json:"order"`
			Document   docData `json:"document"`
		}](t, env)
		require.Len(t, rows, 1)
		assert.Equal(t, doc.ID, rows[0].DocumentID)
		assert.Equal(t, "Time, Clocks", rows[0].Document.Title)
	})

	t.Run("remove", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodDelete, base+"/"+doc.ID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec, env := do(t, h, http.MethodDelete, base+"/"+doc.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "RESOURCE_NOT_FOUND", env.Code)
	})
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)

	rec, env = do(t, h, http.MethodPatch, "/api/documents", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))

	id := uuid.NewString()
	rec, env = do(t, h, http.MethodPost, "/api/persons/"+id+"/documents/"+id, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Code)
	assert.Equal(t, "DELETE", rec.Header().Get("Allow"))

	rec, env = do(t, h, http.MethodPatch, "/api/documents/"+id, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, PUT, DELETE", rec.Header().Get("Allow"))
}

func TestBodyDecodedAfterParams(t *testing.T) {
	// Nil services panic if reached.
	h := NewRouter(nil, nil, testConfig(), utils.NewNopLogger())

	for _, path := range []string{"/api/documents/not-a-uuid", "/api/persons/123"} {
		rec, env := do(t, h, http.MethodPut, path, `{"title":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "INVALID_ID_FORMAT", env.Code, path)
	}

	rec, env := do(t, h, http.MethodPost, "/api/persons/xyz/documents", `nope`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID_FORMAT", env.Code)
}

func TestStrayBodyIgnored(t *testing.T) {
	h := newTestServer(t)
	doc := createDocument(t, h, "Stray")

	rec, _ := do(t, h, http.MethodGet, "/api/documents/"+doc.ID, `not json`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/documents", `{"broken":`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/documents/"+doc.ID, `not json`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRepeatedQueryKeyRejected(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/api/documents?page=1&page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, "page must be a single value", env.Details["page"])

	rec, env = do(t, h, http.MethodGet, "/api/persons?search=a&search=b", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Details, "search")
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "9.9.9", body["version"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodGet, "/api/documents", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ezdocs_http_requests_total")
}
