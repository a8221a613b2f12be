package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type customerRequest struct {
	ID        int64  `json:"id"          validate:"required,gt=0"`
	FirstName string `json:"first_name"  validate:"required,max=50"`
	LastName  string `json:"last_name"   validate:"max=50"`
	Email     string `json:"email"       validate:"omitempty,email,min=5,max=254"`
	LangKey   string `json:"lang_key"    validate:"omitempty,min=2,max=10"`
	ImageURL  string `json:"image_url"   validate:"max=256"`
}

type customerResponse struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name,omitempty"`
	Email          string    `json:"email,omitempty"`
	LangKey        string    `json:"lang_key"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

type listCustomersResponse struct {
	Data       []customerResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
