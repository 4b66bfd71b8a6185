// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/htmlsanitize"
	"github.com/adityachugh/Announcements-Web/internal/app/system/normalize"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var ErrDuplicateEmail = apperr.New(apperr.Conflict, "an account with this email already exists")

// Create registers a new user. The email is normalized and must be
// unique; the password is stored as a bcrypt hash.
func (s *Store) Create(ctx context.Context, name, email, password string) (models.User, error) {
	name = normalize.Name(name)
	email = normalize.Email(email)
	if name == "" {
		return models.User{}, apperr.New(apperr.Validation, "name is required")
	}
	if email == "" {
		return models.User{}, apperr.New(apperr.Validation, "email is required")
	}
	if len(password) < 8 {
		return models.User{}, apperr.New(apperr.Validation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks an email/password pair and returns the user on
// success. Unknown email and wrong password produce the same error so
// the response does not reveal which accounts exist.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	badCreds := apperr.New(apperr.Unauthenticated, "invalid email or password")

	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, badCreds
	}
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, badCreds
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UpdateDescription replaces the user's profile description.
func (s *Store) UpdateDescription(ctx context.Context, id primitive.ObjectID, description string) error {
	return s.setField(ctx, id, "description", htmlsanitize.PlainText(description))
}

func (s *Store) UpdateProfilePhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.setField(ctx, id, "profile_photo_url", url)
}

func (s *Store) UpdateCoverPhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.setField(ctx, id, "cover_photo_url", url)
}

func (s *Store) setField(ctx context.Context, id primitive.ObjectID, field, value string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		field:        value,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// ListByIDs loads a set of users keyed by ID, used to decorate
// follower lists with names without N round trips.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"password_hash": 0}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}
