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

const collectionUsers = "users"

// UserRepository persists users in the users collection. Login and email
// are stored lower-cased; case-insensitive matching is exact matching on
// the lower-cased key. Roles are embedded in the user document, so the
// WithRoles lookups are plain reads.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID             string    `bson:"_id"`
	Login          string    `bson:"login"`
	Email          string    `bson:"email,omitempty"`
	FirstName      string    `bson:"first_name,omitempty"`
	LastName       string    `bson:"last_name,omitempty"`
	LangKey        string    `bson:"lang_key"`
	ImageURL       string    `bson:"image_url,omitempty"`
	Activated      bool      `bson:"activated"`
	Roles          []string  `bson:"roles"`
	CreatedBy      string    `bson:"created_by"`
	CreatedAt      time.Time `bson:"created_at"`
	LastModifiedBy string    `bson:"last_modified_by"`
	LastModifiedAt time.Time `bson:"last_modified_at"`
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindOneByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"login": strings.ToLower(login)})
}

func (r *UserRepository) FindOneByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) FindOneWithRolesByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.FindOneByLogin(ctx, login)
}

func (r *UserRepository) FindOneWithRolesByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindOneByEmail(ctx, email)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return docToUser(&doc), nil
}

// FindAllByLoginNot pages through users excluding the given login, ordered
// by login for stable pagination.
func (r *UserRepository) FindAllByLoginNot(ctx context.Context, excludedLogin string, page, limit int) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"login": bson.M{"$ne": strings.ToLower(excludedLogin)}}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "login", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, docToUser(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, userToDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, userToDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, login string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"login": strings.ToLower(login)}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes on login and email. The email
// index is sparse so users without an email do not collide.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "login", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("login_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("email_unique"),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// duplicateKeyError maps a unique index violation to the conflict error of
// the offending key, using the index name carried in the driver error.
func duplicateKeyError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "login_unique"):
		return domain.ErrLoginExists
	case strings.Contains(msg, "email_unique"):
		return domain.ErrEmailExists
	default:
		return domain.ErrLoginExists
	}
}

func userToDoc(u *domain.User) *userDoc {
	return &userDoc{
		ID:             u.ID,
		Login:          strings.ToLower(u.Login),
		Email:          strings.ToLower(u.Email),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		LangKey:        u.LangKey,
		ImageURL:       u.ImageURL,
		Activated:      u.Activated,
		Roles:          rolesToNames(u.Roles),
		CreatedBy:      u.CreatedBy,
		CreatedAt:      u.CreatedAt,
		LastModifiedBy: u.LastModifiedBy,
		LastModifiedAt: u.LastModifiedAt,
	}
}

func docToUser(d *userDoc) *domain.User {
	return &domain.User{
		ID:             d.ID,
		Login:          d.Login,
		Email:          d.Email,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		LangKey:        d.LangKey,
		ImageURL:       d.ImageURL,
		Activated:      d.Activated,
		Roles:          domain.ParseRoles(d.Roles),
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
		LastModifiedBy: d.LastModifiedBy,
		LastModifiedAt: d.LastModifiedAt,
	}
}

func rolesToNames(roles []domain.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
