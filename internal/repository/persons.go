package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/ezdocs-api/internal/models"
)

type PersonRepository interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Person, error)
	Count(ctx context.Context, search string) (int, error)
	Create(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, id string) (*models.Person, error)
	Update(ctx context.Context, id string, changes Changes) error
	Delete(ctx context.Context, id string) error
}

type personRepository struct {
	db *sqlx.DB
}

func NewPersonRepository(db *sqlx.DB) PersonRepository {
	return &personRepository{db: db}
}

var personUpdatable = map[string]bool{
	"last_name": true, "first_name": true, "updated_at": true,
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchFilter returns the WHERE clause and args for a case-insensitive
// substring match on either name. LIKE folds ASCII case in SQLite.
func searchFilter(search string) (string, []any) {
	if search == "" {
		return "", nil
	}

	pattern := "%" + likeEscaper.Replace(search) + "%"
	return ` WHERE last_name LIKE ? ESCAPE '\' OR first_name LIKE ? ESCAPE '\'`, []any{pattern, pattern}
}

func (r *personRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Person, error) {
	where, args := searchFilter(search)

	query := `SELECT id, last_name, first_name, created_at, updated_at FROM persons` + where +
		` ORDER BY last_name ASC, first_name ASC, id ASC LIMIT ? OFFSET ?`

	persons := []models.Person{}
	if err := r.db.SelectContext(ctx, &persons, query, append(args, limit, offset)...); err != nil {
		return nil, err
	}

	return persons, nil
}

func (r *personRepository) Count(ctx context.Context, search string) (int, error) {
	where, args := searchFilter(search)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM persons`+where, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO persons (id, last_name, first_name, created_at, updated_at)
		VALUES (:id, :last_name, :first_name, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, person)
	return err
}

// GetByID returns nil, nil when no person has the id.
func (r *personRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	var person models.Person

	err := r.db.GetContext(ctx, &person,
		`SELECT id, last_name, first_name, created_at, updated_at FROM persons WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func (r *personRepository) Update(ctx context.Context, id string, changes Changes) error {
	query, args, err := buildUpdate("persons", personUpdatable, changes, "id = ?")
	if err != nil {
		return err
	}

	return execAffecting(ctx, r.db, query, append(args, id)...)
}

func (r *personRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, `DELETE FROM persons WHERE id = ?`, id)
}
