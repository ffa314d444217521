package models

import "time"

type Person struct {
	ID        string    `json:"id" db:"id"`
	LastName  string    `json:"last_name" db:"last_name"`
	FirstName *string   `json:"first_name" db:"first_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreatePersonRequest struct {
	LastName  string  `json:"last_name" validate:"required"`
	FirstName *string `json:"first_name"`
}

type UpdatePersonRequest struct {
	LastName  *string `json:"last_name" validate:"omitnil,min=1"`
	FirstName *string `json:"first_name"`
}

// PersonQuery is the query string of GET /api/persons. Q is an alias of Search.
type PersonQuery struct {
	Page   int    `json:"page" query:"page" validate:"min=1"`
	Limit  int    `json:"limit" query:"limit" validate:"min=1,max=100"`
	Search string `json:"search" query:"search"`
	Q      string `json:"q" query:"q"`
}

func (q PersonQuery) Pagination() Pagination {
	return Pagination{Page: q.Page, Limit: q.Limit}
}

// Term returns the search filter, preferring search over q.
func (q PersonQuery) Term() string {
	if q.Search != "" {
		return q.Search
	}
	return q.Q
}
