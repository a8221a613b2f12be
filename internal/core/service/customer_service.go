package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// ImageBucket is the fixed bucket holding customer profile images.
const ImageBucket = "customersimages"

// CustomerService implements customer CRUD and profile image uploads.
type CustomerService struct {
	repo           ports.CustomerRepository
	storage        ports.ObjectStorage
	defaultLangKey string
	logger         zerolog.Logger
}

func NewCustomerService(repo ports.CustomerRepository, storage ports.ObjectStorage,
	defaultLangKey string, logger zerolog.Logger) *CustomerService {

	if defaultLangKey == "" {
		defaultLangKey = "en"
	}
	return &CustomerService{repo: repo, storage: storage, defaultLangKey: defaultLangKey, logger: logger}
}

// Create persists a new customer under its client-assigned id.
func (s *CustomerService) Create(ctx context.Context, actor string, in ports.CustomerInput) (*ports.CustomerResult, error) {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:             in.ID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		LangKey:        in.LangKey,
		ImageURL:       in.ImageURL,
		CreatedBy:      orSystem(actor),
		CreatedAt:      now,
		LastModifiedBy: orSystem(actor),
		LastModifiedAt: now,
	}
	if customer.LangKey == "" {
		customer.LangKey = s.defaultLangKey
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("customer_id", customer.ID).Str("created_by", customer.CreatedBy).Msg("customer created")
	return toCustomerResult(customer), nil
}

// Update replaces the mutable fields of an existing customer.
func (s *CustomerService) Update(ctx context.Context, actor string, in ports.CustomerInput) (*ports.CustomerResult, error) {
	customer, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	customer.FirstName = in.FirstName
	customer.LastName = in.LastName
	if in.Email != "" {
		customer.Email = strings.ToLower(in.Email)
	}
	if in.LangKey != "" {
		customer.LangKey = in.LangKey
	}
	customer.ImageURL = in.ImageURL
	customer.LastModifiedBy = orSystem(actor)
	customer.LastModifiedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("customer_id", customer.ID).Msg("customer updated")
	return toCustomerResult(customer), nil
}

// Delete removes a customer by id. Deleting an absent id is a no-op
// success.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

func (s *CustomerService) FindByID(ctx context.Context, id int64) (*ports.CustomerResult, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResult(customer), nil
}

func (s *CustomerService) FindAll(ctx context.Context, page, limit int) ([]*ports.CustomerResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	customers, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	results := make([]*ports.CustomerResult, len(customers))
	for i, c := range customers {
		results[i] = toCustomerResult(c)
	}
	return results, total, nil
}

// UploadImage stores the image as "<id>.<ext>" in the fixed bucket and
// updates the customer's image URL. Re-uploading with a different
// extension points the URL at the new object; the previous object is left
// orphaned and is not cleaned up.
func (s *CustomerService) UploadImage(ctx context.Context, actor string, id int64,
	filename, contentType string, reader io.Reader, size int64) (*ports.CustomerResult, error) {

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.BucketExists(ctx, ImageBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := s.storage.MakeBucket(ctx, ImageBucket); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("%d%s", id, path.Ext(filename))
	if err := s.storage.PutObject(ctx, ImageBucket, key, contentType, reader, size); err != nil {
		return nil, err
	}

	customer.ImageURL = s.storage.ObjectURL(ImageBucket, key)
	customer.LastModifiedBy = orSystem(actor)
	customer.LastModifiedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("customer_id", id).Str("object_key", key).Msg("customer image stored")
	return toCustomerResult(customer), nil
}

func toCustomerResult(c *domain.Customer) *ports.CustomerResult {
	return &ports.CustomerResult{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		LangKey:        c.LangKey,
		ImageURL:       c.ImageURL,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		LastModifiedBy: c.LastModifiedBy,
		LastModifiedAt: c.LastModifiedAt,
	}
}
