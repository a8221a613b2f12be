package domain

import "time"

// Customer is an independent aggregate with no relation to User.
// The identifier is client-assigned, not generated by the store.
type Customer struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	LangKey        string    `json:"lang_key"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}
