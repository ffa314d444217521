package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
	"github.com/BerylCAtieno/ezdocs-api/internal/repository"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

type DocumentService interface {
	ListDocuments(ctx context.Context, p models.Pagination) (*models.Page[models.DocumentSummary], error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error)
	UpdateDocument(ctx context.Context, id string, req models.UpdateDocumentRequest) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type documentService struct {
	repo   repository.DocumentRepository
	logger *utils.Logger
	now    func() time.Time
}

func NewDocumentService(repo repository.DocumentRepository, logger *utils.Logger) DocumentService {
	return &documentService{
		repo:   repo,
		logger: logger,
		now:    utcNow,
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func (s *documentService) ListDocuments(ctx context.Context, p models.Pagination) (*models.Page[models.DocumentSummary], error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count documents", "error", err)
		return nil, storageError("Failed to list documents", err)
	}

	docs, err := s.repo.List(ctx, p.Limit, p.Offset())
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err, "page", p.Page, "limit", p.Limit)
		return nil, storageError("Failed to list documents", err)
	}

	return &models.Page[models.DocumentSummary]{Items: docs, Total: total}, nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, storageError("Failed to retrieve document", err)
	}
	if doc == nil {
		return nil, utils.NewDocumentNotFoundError(id)
	}

	return doc, nil
}

func (s *documentService) CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error) {
	now := s.now()
	doc := &models.Document{
		ID:        utils.GenerateID(),
		Title:     req.Title,
		Type:      req.Type,
		Abstract:  req.Abstract,
		Year:      req.Year,
		Month:     req.Month,
		Day:       req.Day,
		Pages:     req.Pages,
		Volume:    req.Volume,
		Issue:     req.Issue,
		Source:    req.Source,
		Publisher: req.Publisher,
		Language:  req.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}

	targets := []struct {
		raw json.RawMessage
		dst **string
	}{
		{req.Identifiers, &doc.Identifiers},
		{req.URLs, &doc.URLs},
		{req.Keywords, &doc.Keywords},
		{req.AIKeywords, &doc.AIKeywords},
	}
	for _, t := range targets {
		value, _, err := jsonField(t.raw)
		if err != nil {
			return nil, utils.NewInternalError("Failed to serialize document fields", err)
		}
		*t.dst = value
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to save document to database", "error", err, "id", doc.ID)
		return nil, storageError("Failed to save document", err)
	}

	s.logger.Info("Document created", "id", doc.ID, "type", doc.Type)

	return doc, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, id string, req models.UpdateDocumentRequest) (*models.Document, error) {
	changes, err := documentChanges(req)
	if err != nil {
		return nil, utils.NewInternalError("Failed to serialize document fields", err)
	}
	changes["updated_at"] = s.now()

	if err := s.repo.Update(ctx, id, changes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewDocumentNotFoundError(id)
		}
		s.logger.Error("Failed to update document", "error", err, "id", id)
		return nil, storageError("Failed to update document", err)
	}

	s.logger.Info("Document updated", "id", id, "fields", len(changes)-1)

	return s.GetDocument(ctx, id)
}

func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewDocumentNotFoundError(id)
		}
		s.logger.Error("Failed to delete document", "error", err, "id", id)
		return storageError("Failed to delete document", err)
	}

	s.logger.Info("Document deleted", "id", id)
	return nil
}

// documentChanges lists the columns a partial update touches.
func documentChanges(req models.UpdateDocumentRequest) (repository.Changes, error) {
	changes := repository.Changes{}

	strs := map[string]*string{
		"title": req.Title, "type": req.Type, "abstract": req.Abstract, "pages": req.Pages,
		"volume": req.Volume, "issue": req.Issue, "source": req.Source, "publisher": req.Publisher,
		"language": req.Language,
	}
	for col, v := range strs {
		if v != nil {
			changes[col] = *v
		}
	}

	ints := map[string]*int{"year": req.Year, "month": req.Month, "day": req.Day}
	for col, v := range ints {
		if v != nil {
			changes[col] = *v
		}
	}

	raws := map[string]json.RawMessage{
		"identifiers": req.Identifiers, "urls": req.URLs, "keywords": req.Keywords, "ai_keywords": req.AIKeywords,
	}
	for col, raw := range raws {
		value, present, err := jsonField(raw)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		if value == nil {
			changes[col] = nil
		} else {
			changes[col] = *value
		}
	}

	return changes, nil
}
