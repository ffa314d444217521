package router

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BerylCAtieno/ezdocs-api/internal/config"
	"github.com/BerylCAtieno/ezdocs-api/internal/handlers"
	"github.com/BerylCAtieno/ezdocs-api/internal/middleware"
	"github.com/BerylCAtieno/ezdocs-api/internal/pipeline"
	"github.com/BerylCAtieno/ezdocs-api/internal/sanitize"
	"github.com/BerylCAtieno/ezdocs-api/internal/services"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
	"github.com/BerylCAtieno/ezdocs-api/internal/validation"
)

const (
	body   = pipeline.PartBody
	params = pipeline.PartParams
	query  = pipeline.PartQuery
)

// NewRouter wires every route as sanitize -> validate -> controller, with
// all failures written by one responder. Bodies are decoded only on routes
// that read one, after their path params passed.
func NewRouter(docService services.DocumentService, personService services.PersonService, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()
	respond := handlers.NewResponder(logger, cfg.IsProduction())
	v := validation.Default

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Recovery(logger, respond.Error))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// mux reports a method mismatch only when no later route is tried, so
	// both cases go through one handler that checks the other methods.
	unmatched := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if allowed := allowedMethods(r, req); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			respond.Error(w, req, utils.NewMethodNotAllowedError(req.Method, req.URL.Path))
			return
		}
		respond.Error(w, req, utils.NewRouteNotFoundError(req.Method, req.URL.Path))
	})
	r.NotFoundHandler = unmatched
	r.MethodNotAllowedHandler = unmatched

	docHandler := handlers.NewDocumentHandler(docService, respond, logger)
	personHandler := handlers.NewPersonHandler(personService, respond, logger)
	healthHandler := handlers.NewHealthHandler(respond, cfg.Version, cfg.Environment)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	// Document endpoints
	api.Handle("/documents", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(query),
		v.Stage(query, validation.Pagination),
	}, docHandler.ListDocuments)).Methods(http.MethodGet)

	api.Handle("/documents", respond.Handle(pipeline.Pipeline{
		handlers.DecodeBody,
		sanitize.Stage(body),
		v.Stage(body, validation.CreateDocument),
	}, docHandler.CreateDocument)).Methods(http.MethodPost)

	api.Handle("/documents/{id}", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.IDParams),
	}, docHandler.GetDocument)).Methods(http.MethodGet)

	api.Handle("/documents/{id}", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.IDParams),
		handlers.DecodeBody,
		sanitize.Stage(body),
		v.Stage(body, validation.UpdateDocument),
	}, docHandler.UpdateDocument)).Methods(http.MethodPut)

	api.Handle("/documents/{id}", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.IDParams),
	}, docHandler.DeleteDocument)).Methods(http.MethodDelete)

	// Person endpoints
	api.Handle("/persons", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(query),
		v.Stage(query, validation.PersonQuery),
	}, personHandler.ListPersons)).Methods(http.MethodGet)

	api.Handle("/persons", respond.Handle(pipeline.Pipeline{
		handlers.DecodeBody,
		sanitize.Stage(body),
		v.Stage(body, validation.CreatePerson),
	}, personHandler.CreatePerson)).Methods(http.MethodPost)

	api.Handle("/persons/{id}", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.IDParams),
	}, personHandler.GetPerson)).Methods(http.MethodGet)

	api.Handle("/persons/{id}", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.IDParams),
		handlers.DecodeBody,
		sanitize.Stage(body),
		v.Stage(body, validation.UpdatePerson),
	}, personHandler.UpdatePerson)).Methods(http.MethodPut)

	api.Handle("/persons/{id}", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.IDParams),
	}, personHandler.DeletePerson)).Methods(http.MethodDelete)

	// Person <-> document associations
	api.Handle("/persons/{id}/documents", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params, query),
		v.Stage(params, validation.IDParams),
		v.Stage(query, validation.Pagination),
	}, personHandler.ListDocuments)).Methods(http.MethodGet)

	api.Handle("/persons/{id}/documents", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.IDParams),
		handlers.DecodeBody,
		sanitize.Stage(body),
		v.Stage(body, validation.CreateAuthor),
		validation.MatchParam("person_id", "id"),
	}, personHandler.AddDocument)).Methods(http.MethodPost)

	api.Handle("/persons/{id}/documents/{document_id}", respond.Handle(pipeline.Pipeline{
		sanitize.Stage(params),
		v.Stage(params, validation.AuthorParams),
	}, personHandler.RemoveDocument)).Methods(http.MethodDelete)

	return middleware.CORS(cfg.CORSAllowedOrigins)(r)
}

var routeMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// allowedMethods lists the methods other than req's under which a route
// matches req's path.
func allowedMethods(r *mux.Router, req *http.Request) []string {
	var allowed []string
	for _, method := range routeMethods {
		if method == req.Method {
			continue
		}

		alt := req.Clone(req.Context())
		alt.Method = method

		var match mux.RouteMatch
		if r.Match(alt, &match) && match.MatchErr == nil {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
