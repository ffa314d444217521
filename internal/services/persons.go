package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
	"github.com/BerylCAtieno/ezdocs-api/internal/repository"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

type PersonService interface {
	ListPersons(ctx context.Context, search string, p models.Pagination) (*models.Page[models.Person], error)
	GetPerson(ctx context.Context, id string) (*models.Person, error)
	CreatePerson(ctx context.Context, req models.CreatePersonRequest) (*models.Person, error)
	UpdatePerson(ctx context.Context, id string, req models.UpdatePersonRequest) (*models.Person, error)
	DeletePerson(ctx context.Context, id string) error

	// Associations with documents, ordered by author position.
	ListDocuments(ctx context.Context, personID string, p models.Pagination) (*models.Page[models.AuthoredDocument], error)
	AddDocument(ctx context.Context, personID string, req models.CreateAuthorRequest) (*models.DocumentAuthor, error)
	RemoveDocument(ctx context.Context, personID, documentID string) error
}

type personService struct {
	persons repository.PersonRepository
	authors repository.AuthorRepository
	logger  *utils.Logger
	now     func() time.Time
}

func NewPersonService(persons repository.PersonRepository, authors repository.AuthorRepository, logger *utils.Logger) PersonService {
	return &personService{
		persons: persons,
		authors: authors,
		logger:  logger,
		now:     utcNow,
	}
}

func (s *personService) ListPersons(ctx context.Context, search string, p models.Pagination) (*models.Page[models.Person], error) {
	total, err := s.persons.Count(ctx, search)
	if err != nil {
		s.logger.Error("Failed to count persons", "error", err)
		return nil, storageError("Failed to list persons", err)
	}

	persons, err := s.persons.List(ctx, search, p.Limit, p.Offset())
	if err != nil {
		s.logger.Error("Failed to list persons", "error", err, "page", p.Page, "limit", p.Limit)
		return nil, storageError("Failed to list persons", err)
	}

	return &models.Page[models.Person]{Items: persons, Total: total}, nil
}

func (s *personService) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	person, err := s.persons.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get person", "error", err, "id", id)
		return nil, storageError("Failed to retrieve person", err)
	}
	if person == nil {
		return nil, utils.NewPersonNotFoundError(id)
	}

	return person, nil
}

func (s *personService) CreatePerson(ctx context.Context, req models.CreatePersonRequest) (*models.Person, error) {
	now := s.now()
	person := &models.Person{
		ID:        utils.GenerateID(),
		LastName:  req.LastName,
		FirstName: req.FirstName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.persons.Create(ctx, person); err != nil {
		s.logger.Error("Failed to save person to database", "error", err, "id", person.ID)
		return nil, storageError("Failed to save person", err)
	}

	s.logger.Info("Person created", "id", person.ID)

	return person, nil
}

func (s *personService) UpdatePerson(ctx context.Context, id string, req models.UpdatePersonRequest) (*models.Person, error) {
	changes := repository.Changes{"updated_at": s.now()}
	if req.LastName != nil {
		changes["last_name"] = *req.LastName
	}
	if req.FirstName != nil {
		changes["first_name"] = *req.FirstName
	}

	if err := s.persons.Update(ctx, id, changes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewPersonNotFoundError(id)
		}
		s.logger.Error("Failed to update person", "error", err, "id", id)
		return nil, storageError("Failed to update person", err)
	}

	s.logger.Info("Person updated", "id", id)

	return s.GetPerson(ctx, id)
}

func (s *personService) DeletePerson(ctx context.Context, id string) error {
	if err := s.persons.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewPersonNotFoundError(id)
		}
		s.logger.Error("Failed to delete person", "error", err, "id", id)
		return storageError("Failed to delete person", err)
	}

	s.logger.Info("Person deleted", "id", id)
	return nil
}

func (s *personService) ListDocuments(ctx context.Context, personID string, p models.Pagination) (*models.Page[models.AuthoredDocument], error) {
	// An unknown person is a 404, not an empty list.
	if _, err := s.GetPerson(ctx, personID); err != nil {
		return nil, err
	}

	total, err := s.authors.CountByPerson(ctx, personID)
	if err != nil {
		s.logger.Error("Failed to count person documents", "error", err, "person_id", personID)
		return nil, storageError("Failed to list person documents", err)
	}

	rows, err := s.authors.ListByPerson(ctx, personID, p.Limit, p.Offset())
	if err != nil {
		s.logger.Error("Failed to list person documents", "error", err, "person_id", personID)
		return nil, storageError("Failed to list person documents", err)
	}

	return &models.Page[models.AuthoredDocument]{Items: rows, Total: total}, nil
}

// AddDocument relies on the foreign keys and the composite primary key to
// reject missing ends and duplicate pairs.
func (s *personService) AddDocument(ctx context.Context, personID string, req models.CreateAuthorRequest) (*models.DocumentAuthor, error) {
	if req.Order == nil {
		return nil, utils.NewValidationError(map[string]string{"order": "order is required"})
	}

	author := &models.DocumentAuthor{
		DocumentID: req.DocumentID,
		PersonID:   personID,
		Order:      *req.Order,
		CreatedAt:  s.now(),
	}

	if err := s.authors.Create(ctx, author); err != nil {
		appErr := storageError("Failed to add document to person", err)
		if appErr.Kind == utils.KindInternal {
			s.logger.Error("Failed to add document to person", "error", err, "person_id", personID, "document_id", req.DocumentID)
		}
		return nil, appErr
	}

	s.logger.Info("Document added to person", "person_id", personID, "document_id", req.DocumentID, "order", author.Order)

	return author, nil
}

func (s *personService) RemoveDocument(ctx context.Context, personID, documentID string) error {
	if err := s.authors.Delete(ctx, documentID, personID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewResourceNotFoundError(
				fmt.Sprintf("Document %s is not associated with person %s", documentID, personID))
		}
		s.logger.Error("Failed to remove document from person", "error", err, "person_id", personID, "document_id", documentID)
		return storageError("Failed to remove document from person", err)
	}

	s.logger.Info("Document removed from person", "person_id", personID, "document_id", documentID)
	return nil
}
