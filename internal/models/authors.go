package models

import "time"

// DocumentAuthor links a person to a document at a 1-based author position.
// (document_id, person_id) is the composite key document_id_person_id.
type DocumentAuthor struct {
	DocumentID string    `json:"document_id" db:"document_id"`
	PersonID   string    `json:"person_id" db:"person_id"`
	Order      int       `json:"order" db:"order"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// AuthoredDocument is an association row carrying its joined document.
type AuthoredDocument struct {
	DocumentAuthor
	Document Document `json:"document" db:"document"`
}

type CreateAuthorRequest struct {
	DocumentID string  `json:"document_id" validate:"required,uuid"`
	PersonID   *string `json:"person_id" validate:"omitnil,uuid"`
	Order      *int    `json:"order" validate:"required,min=1"`
}

type IDParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

type AuthorParams struct {
	ID         string `json:"id" validate:"required,uuid"`
	DocumentID string `json:"document_id" validate:"required,uuid"`
}
