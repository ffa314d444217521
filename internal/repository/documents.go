package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
)

type DocumentRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.DocumentSummary, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	Update(ctx context.Context, id string, changes Changes) error
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

const documentColumns = `id, title, type, abstract, ai_summary, year, month, day, pages, volume, issue,
	source, publisher, language, identifiers, urls, keywords, ai_keywords, created_at, updated_at`

var documentUpdatable = map[string]bool{
	"title": true, "type": true, "abstract": true, "year": true, "month": true, "day": true,
	"pages": true, "volume": true, "issue": true, "source": true, "publisher": true, "language": true,
	"identifiers": true, "urls": true, "keywords": true, "ai_keywords": true, "updated_at": true,
}

func (r *documentRepository) List(ctx context.Context, limit, offset int) ([]models.DocumentSummary, error) {
	query := `
		SELECT id, title, type, year, language, created_at, updated_at
		FROM documents
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	docs := []models.DocumentSummary{}
	if err := r.db.SelectContext(ctx, &docs, query, limit, offset); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES (:id, :title, :type, :abstract, :ai_summary, :year, :month, :day, :pages, :volume, :issue,
			:source, :publisher, :language, :identifiers, :urls, :keywords, :ai_keywords, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

// GetByID returns nil, nil when no document has the id.
func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document

	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`

	err := r.db.GetContext(ctx, &doc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *documentRepository) Update(ctx context.Context, id string, changes Changes) error {
	query, args, err := buildUpdate("documents", documentUpdatable, changes, "id = ?")
	if err != nil {
		return err
	}

	return execAffecting(ctx, r.db, query, append(args, id)...)
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, `DELETE FROM documents WHERE id = ?`, id)
}
