package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "staybook/internal/domain/booking"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *BookingRepository) ByRequest(ctx context.Context, id domainrequest.RequestID) (*domainbooking.Booking, error) {
	return r.findOne(ctx, bson.M{"request_id": string(id)})
}

func (r *BookingRepository) findOne(ctx context.Context, filter bson.M) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Save upserts new bookings and version-guards updates to existing ones.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	doc.Version = b.Version + 1

	if b.Version == 0 {
		opts := options.Replace().SetUpsert(true)
		if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
			return err
		}
	} else {
		filter := bson.M{"_id": doc.ID, "version": b.Version}
		res, err := r.col.ReplaceOne(ctx, filter, doc)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrConcurrentUpdate
		}
	}
	b.Version = doc.Version
	b.ClearEvents()
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbooking.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID domainuser.ID) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"guest_id": string(guestID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookings []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		bookings = append(bookings, doc.toDomain())
	}
	return bookings, cur.Err()
}

type bookingDocument struct {
	ID         string      `bson:"_id"`
	ListingID  string      `bson:"listing_id"`
	GuestID    string      `bson:"guest_id"`
	CheckIn    int64       `bson:"check_in"`
	CheckOut   int64       `bson:"check_out"`
	TotalPrice money.Money `bson:"total_price"`
	Status     string      `bson:"status"`
	RequestID  string      `bson:"request_id"`
	CreatedAt  int64       `bson:"created_at"`
	UpdatedAt  int64       `bson:"updated_at"`
	Version    int64       `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		ListingID:  string(b.ListingID),
		GuestID:    string(b.GuestID),
		CheckIn:    b.Stay.CheckIn.UnixMilli(),
		CheckOut:   b.Stay.CheckOut.UnixMilli(),
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		RequestID:  string(b.RequestID),
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
		Version:    b.Version,
	}
}

func (d bookingDocument) toDomain() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		ListingID: domainlisting.ListingID(d.ListingID),
		GuestID:   domainuser.ID(d.GuestID),
		Stay: daterange.StayRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		TotalPrice: d.TotalPrice,
		Status:     domainbooking.Status(d.Status),
		RequestID:  domainrequest.RequestID(d.RequestID),
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}
}
