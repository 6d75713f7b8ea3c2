package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "staybook/internal/domain/listing"
	"staybook/internal/domain/shared/money"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	doc := newListingDocument(l)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

type listingDocument struct {
	ID           string      `bson:"_id"`
	Host         string      `bson:"host_id"`
	Title        string      `bson:"title"`
	NightlyRate  money.Money `bson:"nightly_rate"`
	CheckInTime  string      `bson:"check_in_time"`
	CheckOutTime string      `bson:"check_out_time"`
	Timezone     string      `bson:"timezone"`
	Published    bool        `bson:"published"`
	CreatedAt    int64       `bson:"created_at"`
	UpdatedAt    int64       `bson:"updated_at"`
}

func newListingDocument(l *domainlisting.Listing) listingDocument {
	return listingDocument{
		ID:           string(l.ID),
		Host:         string(l.Host),
		Title:        l.Title,
		NightlyRate:  l.NightlyRate,
		CheckInTime:  l.CheckInTime,
		CheckOutTime: l.CheckOutTime,
		Timezone:     l.Timezone,
		Published:    l.Published,
		CreatedAt:    l.CreatedAt.UnixMilli(),
		UpdatedAt:    l.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toDomain() *domainlisting.Listing {
	return &domainlisting.Listing{
		ID:           domainlisting.ListingID(d.ID),
		Host:         domainlisting.HostID(d.Host),
		Title:        d.Title,
		NightlyRate:  d.NightlyRate,
		CheckInTime:  d.CheckInTime,
		CheckOutTime: d.CheckOutTime,
		Timezone:     d.Timezone,
		Published:    d.Published,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
