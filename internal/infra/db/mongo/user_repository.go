package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "staybook/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := userDocument{
		ID:            string(u.ID),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		ContactEmails: u.ContactEmails,
		CreatedAt:     u.CreatedAt.UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

type userDocument struct {
	ID            string   `bson:"_id"`
	FirstName     string   `bson:"first_name"`
	LastName      string   `bson:"last_name"`
	ContactEmails []string `bson:"contact_emails"`
	CreatedAt     int64    `bson:"created_at"`
}

func (d userDocument) toDomain() *domainuser.User {
	return &domainuser.User{
		ID:            domainuser.ID(d.ID),
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		ContactEmails: d.ContactEmails,
		CreatedAt:     timestampToTime(d.CreatedAt),
	}
}
