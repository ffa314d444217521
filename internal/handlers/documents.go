package handlers

import (
	"net/http"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
	"github.com/BerylCAtieno/ezdocs-api/internal/pipeline"
	"github.com/BerylCAtieno/ezdocs-api/internal/services"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

type DocumentHandler struct {
	service services.DocumentService
	respond *Responder
	logger  *utils.Logger
}

func NewDocumentHandler(service services.DocumentService, respond *Responder, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		respond: respond,
		logger:  logger,
	}
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	p, _ := pipeline.Value[models.Pagination](req, pipeline.PartQuery)
	h.logger.Debug("Listing documents", "page", p.Page, "limit", p.Limit)

	page, err := h.service.ListDocuments(r.Context(), p)
	if err != nil {
		return err
	}

	h.respond.List(w, page.Items, models.NewPageMeta(page.Total, p))
	return nil
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)

	doc, err := h.service.GetDocument(r.Context(), params.ID)
	if err != nil {
		return err
	}

	h.respond.Data(w, http.StatusOK, doc)
	return nil
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	body, _ := pipeline.Value[models.CreateDocumentRequest](req, pipeline.PartBody)

	doc, err := h.service.CreateDocument(r.Context(), body)
	if err != nil {
		return err
	}

	h.respond.Mutation(w, http.StatusCreated, doc, "Document created successfully")
	return nil
}

func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)
	body, _ := pipeline.Value[models.UpdateDocumentRequest](req, pipeline.PartBody)

	doc, err := h.service.UpdateDocument(r.Context(), params.ID, body)
	if err != nil {
		return err
	}

	h.respond.Mutation(w, http.StatusOK, doc, "Document updated successfully")
	return nil
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request, req *pipeline.Request) error {
	params, _ := pipeline.Value[models.IDParams](req, pipeline.PartParams)

	if err := h.service.DeleteDocument(r.Context(), params.ID); err != nil {
		return err
	}

	h.respond.NoContent(w)
	return nil
}
