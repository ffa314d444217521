package models

import (
	"encoding/json"
	"time"
)

// Document types accepted by the API.
const (
	DocumentTypePaper = "paper"
	DocumentTypeBook  = "book"
	DocumentTypeOther = "other"
)

type Document struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Type        string    `json:"type" db:"type"`
	Abstract    *string   `json:"abstract" db:"abstract"`
	AISummary   *string   `json:"ai_summary" db:"ai_summary"`
	Year        *int      `json:"year" db:"year"`
	Month       *int      `json:"month" db:"month"`
	Day         *int      `json:"day" db:"day"`
	Pages       *string   `json:"pages" db:"pages"`
	Volume      *string   `json:"volume" db:"volume"`
	Issue       *string   `json:"issue" db:"issue"`
	Source      *string   `json:"source" db:"source"`
	Publisher   *string   `json:"publisher" db:"publisher"`
	Language    *string   `json:"language" db:"language"`
	Identifiers *string   `json:"identifiers" db:"identifiers"`
	URLs        *string   `json:"urls" db:"urls"`
	Keywords    *string   `json:"keywords" db:"keywords"`
	AIKeywords  *string   `json:"ai_keywords" db:"ai_keywords"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DocumentSummary is the projection returned by the document list.
type DocumentSummary struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	Year      *int      `json:"year" db:"year"`
	Language  *string   `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateDocumentRequest is the validated body of POST /api/documents.
// JSON-bearing fields stay raw until the service serializes them.
type CreateDocumentRequest struct {
	Title       string          `json:"title" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=paper book other"`
	Abstract    *string         `json:"abstract"`
	Year        *int            `json:"year" validate:"omitnil,min=1000,max=9999"`
	Month       *int            `json:"month" validate:"omitnil,min=1,max=12"`
	Day         *int            `json:"day" validate:"omitnil,min=1,max=31"`
	Pages       *string         `json:"pages"`
	Volume      *string         `json:"volume"`
	Issue       *string         `json:"issue"`
	Source      *string         `json:"source"`
	Publisher   *string         `json:"publisher"`
	Language    *string         `json:"language" validate:"omitnil,len=2,iso639_1"`
	Identifiers json.RawMessage `json:"identifiers" validate:"omitempty,jsontext"`
	URLs        json.RawMessage `json:"urls" validate:"omitempty,jsontext"`
	Keywords    json.RawMessage `json:"keywords" validate:"omitempty,jsontext"`
	AIKeywords  json.RawMessage `json:"ai_keywords" validate:"omitempty,jsontext"`
}

// UpdateDocumentRequest is the validated body of PUT /api/documents/{id}.
// A nil field is left untouched.
type UpdateDocumentRequest struct {
	Title       *string         `json:"title" validate:"omitnil,min=1"`
	Type        *string         `json:"type" validate:"omitnil,oneof=paper book other"`
	Abstract    *string         `json:"abstract"`
	Year        *int            `json:"year" validate:"omitnil,min=1000,max=9999"`
	Month       *int            `json:"month" validate:"omitnil,min=1,max=12"`
	Day         *int            `json:"day" validate:"omitnil,min=1,max=31"`
	Pages       *string         `json:"pages"`
	Volume      *string         `json:"volume"`
	Issue       *string         `json:"issue"`
	Source      *string         `json:"source"`
	Publisher   *string         `json:"publisher"`
	Language    *string         `json:"language" validate:"omitnil,len=2,iso639_1"`
	Identifiers json.RawMessage `json:"identifiers" validate:"omitempty,jsontext"`
	URLs        json.RawMessage `json:"urls" validate:"omitempty,jsontext"`
	Keywords    json.RawMessage `json:"keywords" validate:"omitempty,jsontext"`
	AIKeywords  json.RawMessage `json:"ai_keywords" validate:"omitempty,jsontext"`
}
