package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

const collectionCustomers = "customers"

// CustomerRepository persists customers under their client-assigned id.
type CustomerRepository struct {
	col *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{col: db.Collection(collectionCustomers)}
}

type customerDoc struct {
	ID             int64     `bson:"_id"`
	FirstName      string    `bson:"first_name"`
	LastName       string    `bson:"last_name,omitempty"`
	Email          string    `bson:"email,omitempty"`
	LangKey        string    `bson:"lang_key,omitempty"`
	ImageURL       string    `bson:"image_url,omitempty"`
	CreatedBy      string    `bson:"created_by"`
	CreatedAt      time.Time `bson:"created_at"`
	LastModifiedBy string    `bson:"last_modified_by"`
	LastModifiedAt time.Time `bson:"last_modified_at"`
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc customerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return docToCustomer(&doc), nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, page, limit int) ([]*domain.Customer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []*domain.Customer
	for cursor.Next(ctx) {
		var doc customerDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode customer: %w", err)
		}
		customers = append(customers, docToCustomer(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return customers, total, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, customerToDoc(customer)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email_unique") {
				return domain.ErrEmailExists
			}
			return domain.ErrCustomerExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": customer.ID}, customerToDoc(customer))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index. Customer ids are the _id
// key and unique by construction.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("email_unique"),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func customerToDoc(c *domain.Customer) *customerDoc {
	return &customerDoc{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          strings.ToLower(c.Email),
		LangKey:        c.LangKey,
		ImageURL:       c.ImageURL,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		LastModifiedBy: c.LastModifiedBy,
		LastModifiedAt: c.LastModifiedAt,
	}
}

func docToCustomer(d *customerDoc) *domain.Customer {
	return &domain.Customer{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		LangKey:        d.LangKey,
		ImageURL:       d.ImageURL,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
		LastModifiedBy: d.LastModifiedBy,
		LastModifiedAt: d.LastModifiedAt,
	}
}
