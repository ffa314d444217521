package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
)

type AuthorRepository interface {
	ListByPerson(ctx context.Context, personID string, limit, offset int) ([]models.AuthoredDocument, error)
	CountByPerson(ctx context.Context, personID string) (int, error)
	Create(ctx context.Context, author *models.DocumentAuthor) error
	Delete(ctx context.Context, documentID, personID string) error
}

type authorRepository struct {
	db *sqlx.DB
}

func NewAuthorRepository(db *sqlx.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) ListByPerson(ctx context.Context, personID string, limit, offset int) ([]models.AuthoredDocument, error) {
	query := `
		SELECT da.document_id, da.person_id, da."order", da.created_at,
		       d.id AS "document.id", d.title AS "document.title", d.type AS "document.type",
		       d.abstract AS "document.abstract", d.ai_summary AS "document.ai_summary",
		       d.year AS "document.year", d.month AS "document.month", d.day AS "document.day",
		       d.pages AS "document.pages", d.volume AS "document.volume", d.issue AS "document.issue",
		       d.source AS "document.source", d.publisher AS "document.publisher",
		       d.language AS "document.language", d.identifiers AS "document.identifiers",
		       d.urls AS "document.urls", d.keywords AS "document.keywords",
		       d.ai_keywords AS "document.ai_keywords",
		       d.created_at AS "document.created_at", d.updated_at AS "document.updated_at"
		FROM document_authors da
		JOIN documents d ON d.id = da.document_id
		WHERE da.person_id = ?
		ORDER BY da."order" ASC, da.document_id ASC
		LIMIT ? OFFSET ?
	`

	rows := []models.AuthoredDocument{}
	if err := r.db.SelectContext(ctx, &rows, query, personID, limit, offset); err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *authorRepository) CountByPerson(ctx context.Context, personID string) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM document_authors WHERE person_id = ?`, personID)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *authorRepository) Create(ctx context.Context, author *models.DocumentAuthor) error {
	query := `
		INSERT INTO document_authors (document_id, person_id, "order", created_at)
		VALUES (:document_id, :person_id, :order, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, author)
	return err
}

func (r *authorRepository) Delete(ctx context.Context, documentID, personID string) error {
	return execAffecting(ctx, r.db,
		`DELETE FROM document_authors WHERE document_id = ? AND person_id = ?`, documentID, personID)
}
