package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"pedlop-auth/internal/model"
	"pedlop-auth/pkg/apierror"
)

const usersCollection = "auth_users"

// UserRepository is the persistence boundary for user records. Uniqueness of
// username and email is enforced by the collection's unique indexes; this
// layer only translates the duplicate-key signal into a Conflict error that
// names the offending field.
type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection(usersCollection)}
}

// Create inserts the record and re-reads it from the store. The caller hashes
// the password before it reaches here. A duplicate username or email fails
// with a Conflict naming the exact field and value.
func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	_, err := r.users.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if field, value, ok := duplicateKeyDetails(err); ok {
				return model.User{}, apierror.New(http.StatusBadRequest,
					fmt.Sprintf("The %s '%s' already exists", field, value), err.Error())
			}
		}
		return model.User{}, apierror.New(http.StatusBadRequest, "User can not be saved", err.Error())
	}

	var created model.User
	if err := r.users.FindOne(ctx, bson.M{"_id": u.ID}).Decode(&created); err != nil {
		return model.User{}, fmt.Errorf("read back created user: %w", err)
	}

	return created, nil
}

// FindByUsername returns the record with the password hash projected away.
// A miss returns model.ErrUserNotFound, not a wrapped store error.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, bson.M{"username": username},
		options.FindOne().SetProjection(bson.M{"password": 0}))
}

// FindByUsernameWithPassword returns the full record, hash included. Only
// the signin path may use this view.
func (r *UserRepository) FindByUsernameWithPassword(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, options.FindOne())
}

// FindByID looks a record up by document id, password projected away. The
// session flows resolve by the token subject instead; this covers callers
// that hold an id from List or an admin route.
func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"password": 0}))
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts options.Lister[options.FindOneOptions]) (model.User, error) {
	var u model.User
	err := r.users.FindOne(ctx, filter, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Update applies a partial update and reports whether a record matched. An
// empty field set is a no-op returning false without touching the store, so
// updated_at is never refreshed gratuitously.
func (r *UserRepository) Update(ctx context.Context, id string, fields model.UserUpdate) (bool, error) {
	set := updateDocument(fields)
	if len(set) == 0 {
		return false, nil
	}
	set["updated_at"] = time.Now().UTC()

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if field, value, ok := duplicateKeyDetails(err); ok {
				return false, apierror.New(http.StatusBadRequest,
					fmt.Sprintf("The %s '%s' already exists", field, value), err.Error())
			}
		}
		return false, fmt.Errorf("update user: %w", err)
	}

	return res.MatchedCount > 0, nil
}

// List returns every user in the public view. Admin-only access is the
// router's responsibility, not this layer's.
func (r *UserRepository) List(ctx context.Context) ([]model.AuthUser, error) {
	cursor, err := r.users.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}).SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var records []model.User
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]model.AuthUser, 0, len(records))
	for _, u := range records {
		users = append(users, u.Public())
	}
	return users, nil
}

func updateDocument(fields model.UserUpdate) bson.M {
	set := bson.M{}
	if fields.Username != nil {
		set["username"] = *fields.Username
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Password != nil {
		set["password"] = *fields.Password
	}
	if fields.FullName != nil {
		set["full_name"] = *fields.FullName
	}
	if fields.Disabled != nil {
		set["disabled"] = *fields.Disabled
	}
	return set
}
