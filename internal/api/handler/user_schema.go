package handler

import "time"

// --- Request / Response types ---

type userRequest struct {
	ID          string   `json:"id,omitempty"`
	Login       string   `json:"login"       validate:"required,min=1,max=50"`
	Email       string   `json:"email"       validate:"omitempty,email,min=5,max=254"`
	FirstName   string   `json:"first_name"  validate:"max=50"`
	LastName    string   `json:"last_name"   validate:"max=50"`
	LangKey     string   `json:"lang_key"    validate:"omitempty,min=2,max=10"`
	ImageURL    string   `json:"image_url"   validate:"max=256"`
	Activated   bool     `json:"activated"`
	Authorities []string `json:"authorities"`
}

// updateUserRequest allows the login to be omitted: the path parameter
// names the target and the login is immutable on the standard path.
type updateUserRequest struct {
	ID          string   `json:"id,omitempty"`
	Login       string   `json:"login"       validate:"omitempty,min=1,max=50"`
	Email       string   `json:"email"       validate:"omitempty,email,min=5,max=254"`
	FirstName   string   `json:"first_name"  validate:"max=50"`
	LastName    string   `json:"last_name"   validate:"max=50"`
	LangKey     string   `json:"lang_key"    validate:"omitempty,min=2,max=10"`
	ImageURL    string   `json:"image_url"   validate:"max=256"`
	Activated   bool     `json:"activated"`
	Authorities []string `json:"authorities"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Login          string    `json:"login"`
	Email          string    `json:"email,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	LangKey        string    `json:"lang_key"`
	ImageURL       string    `json:"image_url,omitempty"`
	Activated      bool      `json:"activated"`
	Authorities    []string  `json:"authorities"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []userResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
