package handlers

import (
	"net/http"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
	"github.com/BerylCAtieno/ezdocs-api/internal/pipeline"
	"github.com/BerylCAtieno/ezdocs-api/internal/services"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

type PersonHandler struct {
	service services.PersonService
	respond *Responder
	logger  *utils.Logger
}

func NewPersonHandler(service services.PersonService, respond *Responder, logger *utils.Logger) *PersonHandler {
	return &PersonHandler{
		service: service,
		respond: respond,
		logger:  logger,
	}
}

func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	q, _ := pipeline.Value[models.PersonQuery](req, pipeline.PartQuery)
	p := q.Pagination()
	h.logger.Debug("Listing persons", "page", p.Page, "limit", p.Limit, "search", q.Term())

	page, err := h.service.ListPersons(r.Context(), q.Term(), p)
	if err != nil {
		return err
	}

	h.respond.List(w, page.Items, models.NewPageMeta(page.Total, p))
	return nil
}

func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)

	person, err := h.service.GetPerson(r.Context(), params.ID)
	if err != nil {
		return err
	}

	h.respond.Data(w, http.StatusOK, person)
	return nil
}

func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	body, _ := pipeline.Value[models.CreatePersonRequest](req, pipeline.PartBody)

	person, err := h.service.CreatePerson(r.Context(), body)
	if err != nil {
		return err
	}

	h.respond.Mutation(w, http.StatusCreated, person, "Person created successfully")
	return nil
}

func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)
	body, _ := pipeline.Value[models.UpdatePersonRequest](req, pipeline.PartBody)

	person, err := h.service.UpdatePerson(r.Context(), params.ID, body)
	if err != nil {
		return err
	}

	h.respond.Mutation(w, http.StatusOK, person, "Person updated successfully")
	return nil
}

func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)

	if err := h.service.DeletePerson(r.Context(), params.ID); err != nil {
		return err
	}

	h.respond.NoContent(w)
	return nil
}

func (h *PersonHandler) ListDocuments(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)
	p, _ := pipeline.Value[models.Pagination](req, pipeline.PartQuery)

	page, err := h.service.ListDocuments(r.Context(), params.ID, p)
	if err != nil {
		return err
	}

	h.respond.List(w, page.Items, models.NewPageMeta(page.Total, p))
	return nil
}

func (h *PersonHandler) AddDocument(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)
	body, _ := pipeline.Value[models.CreateAuthorRequest](req, pipeline.PartBody)

	author, err := h.service.AddDocument(r.Context(), params.ID, body)
	if err != nil {
		return err
	}

	h.respond.Mutation(w, http.StatusCreated, author, "Document added to person successfully")
	return nil
}

func (h *PersonHandler) RemoveDocument(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.AuthorParams](req, pipeline.PartParams)

	if err := h.service.RemoveDocument(r.Context(), params.ID, params.DocumentID); err != nil {
		return err
	}

	h.respond.NoContent(w)
	return nil
}
