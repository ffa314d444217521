package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/ezdocs-api/internal/db/dbtest"
	"github.com/BerylCAtieno/ezdocs-api/internal/models"
)

func strPtr(s string) *string { return &s }

func createTestDocument(t *testing.T, repo DocumentRepository, title string, updatedAt time.Time) *models.Document {
	t.Helper()

	doc := &models.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Type:      models.DocumentTypePaper,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	require.NoError(t, repo.Create(context.Background(), doc))
	return doc
}

func createTestPerson(t *testing.T, repo PersonRepository, last string, first *string) *models.Person {
	t.Helper()

	now := time.Now().UTC()
	p := &models.Person{ID: uuid.NewString(), LastName: last, FirstName: first, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestDocumentRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(dbtest.New(t))

	now := time.Now().UTC().Truncate(time.Millisecond)
	year := 2021
	doc := &models.Document{
		ID:          uuid.NewString(),
		Title:       "Attention",
		Type:        models.DocumentTypePaper,
		Year:        &year,
		Language:    strPtr("en"),
		Identifiers: strPtr(`{"doi":"10.1/x"}`),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(ctx, doc))

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Attention", got.Title)
	assert.Equal(t, 2021, *got.Year)
	assert.Equal(t, `{"doi":"10.1/x"}`, *got.Identifiers)
	assert.Nil(t, got.Abstract)
	assert.True(t, got.CreatedAt.Equal(now))

	later := now.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, doc.ID, Changes{"title": "Attention 2", "abstract": "a", "updated_at": later}))

	got, err = repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Attention 2", got.Title)
	assert.Equal(t, "a", *got.Abstract)
	assert.Equal(t, 2021, *got.Year)
	assert.True(t, got.UpdatedAt.Equal(later))

	require.NoError(t, repo.Delete(ctx, doc.ID))

	got, err = repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDocumentRepositoryZeroRows(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(dbtest.New(t))

	err := repo.Update(ctx, uuid.NewString(), Changes{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentRepositoryRejectsUnknownColumn(t *testing.T) {
	repo := NewDocumentRepository(dbtest.New(t))

	err := repo.Update(context.Background(), uuid.NewString(), Changes{"ai_summary": "nope"})
	assert.ErrorContains(t, err, "ai_summary")
}

func TestDocumentRepositoryListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(dbtest.New(t))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createTestDocument(t, repo, fmt.Sprintf("doc-%d", i), base.Add(time.Duration(i)*time.Hour))
	}

	docs, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-3", docs[0].Title)
	assert.Equal(t, "doc-2", docs[1].Title)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestPersonRepositorySearch(t *testing.T) {
	ctx := context.Background()
	repo := NewPersonRepository(dbtest.New(t))

	createTestPerson(t, repo, "Smith", strPtr("Anna"))
	createTestPerson(t, repo, "Jones", strPtr("Bob"))
	createTestPerson(t, repo, "Blacksmith", nil)
	createTestPerson(t, repo, "100%_Real", nil)

	persons, err := repo.List(ctx, "SMITH", 10, 0)
	require.NoError(t, err)
	require.Len(t, persons, 2)
	assert.Equal(t, "Blacksmith", persons[0].LastName)
	assert.Equal(t, "Smith", persons[1].LastName)

	persons, err = repo.List(ctx, "bob", 10, 0)
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, "Jones", persons[0].LastName)

	// Wildcards in the term are literal.
	total, err := repo.Count(ctx, "%_")
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestAuthorRepository(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	docs := NewDocumentRepository(conn)
	persons := NewPersonRepository(conn)
	authors := NewAuthorRepository(conn)

	person := createTestPerson(t, persons, "Curie", strPtr("Marie"))
	first := createTestDocument(t, docs, "first", time.Now().UTC())
	second := createTestDocument(t, docs, "second", time.Now().UTC())

	now := time.Now().UTC()
	require.NoError(t, authors.Create(ctx, &models.DocumentAuthor{DocumentID: second.ID, PersonID: person.ID, Order: 2, CreatedAt: now}))
	require.NoError(t, authors.Create(ctx, &models.DocumentAuthor{DocumentID: first.ID, PersonID: person.ID, Order: 1, CreatedAt: now}))

	// Same pair again violates the composite key.
	err := authors.Create(ctx, &models.DocumentAuthor{DocumentID: first.ID, PersonID: person.ID, Order: 3, CreatedAt: now})
	assert.Error(t, err)

	rows, err := authors.ListByPerson(ctx, person.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Order)
	assert.Equal(t, "first", rows[0].Document.Title)
	assert.Equal(t, first.ID, rows[0].Document.ID)
	assert.Equal(t, "second", rows[1].Document.Title)

	total, err := authors.CountByPerson(ctx, person.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.NoError(t, authors.Delete(ctx, first.ID, person.ID))
	assert.ErrorIs(t, authors.Delete(ctx, first.ID, person.ID), ErrNotFound)
}

func TestAuthorRowsCascade(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	docs := NewDocumentRepository(conn)
	persons := NewPersonRepository(conn)
	authors := NewAuthorRepository(conn)

	person := createTestPerson(t, persons, "Noether", nil)
	doc := createTestDocument(t, docs, "rings", time.Now().UTC())
	require.NoError(t, authors.Create(ctx, &models.DocumentAuthor{DocumentID: doc.ID, PersonID: person.ID, Order: 1, CreatedAt: time.Now().UTC()}))

	require.NoError(t, docs.Delete(ctx, doc.ID))

	assert.Equal(t, 0, countAuthors(t, conn))
}

func countAuthors(t *testing.T, conn *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM document_authors`))
	return n
}
