package ports

import (
	"context"
	"io"
	"time"
)

// CustomerInput carries the client-writable fields of a customer. The id is
// assigned by the client, matching the store contract.
type CustomerInput struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	LangKey   string
	ImageURL  string
}

// CustomerResult is the transfer object returned for a customer.
type CustomerResult struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	LangKey        string
	ImageURL       string
	CreatedBy      string
	CreatedAt      time.Time
	LastModifiedBy string
	LastModifiedAt time.Time
}

// CustomerService orchestrates customer CRUD and profile image uploads.
type CustomerService interface {
	Create(ctx context.Context, actor string, in CustomerInput) (*CustomerResult, error)
	Update(ctx context.Context, actor string, in CustomerInput) (*CustomerResult, error)
	// Delete removes the customer by id. Deleting an absent id succeeds.
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*CustomerResult, error)
	FindAll(ctx context.Context, page, limit int) ([]*CustomerResult, int64, error)
	// UploadImage stores the image under the fixed customer images bucket
	// with key "<id>.<ext>" and points the customer's image URL at it.
	UploadImage(ctx context.Context, actor string, id int64, filename, contentType string, reader io.Reader, size int64) (*CustomerResult, error)
}
