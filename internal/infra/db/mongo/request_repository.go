package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
)

// ErrConcurrentUpdate is returned when a version-guarded write matched no
// document, meaning another transaction committed first.
var ErrConcurrentUpdate = errors.New("mongo: concurrent update")

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection("booking_requests")}
}

func (r *RequestRepository) ByID(ctx context.Context, id domainrequest.RequestID) (*domainrequest.BookingRequest, error) {
	var doc requestDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrequest.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Save upserts new requests and version-guards updates to existing ones.
func (r *RequestRepository) Save(ctx context.Context, req *domainrequest.BookingRequest) error {
	doc := newRequestDocument(req)
	doc.Version = req.Version + 1

	if req.Version == 0 {
		opts := options.Replace().SetUpsert(true)
		if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
			return err
		}
	} else {
		filter := bson.M{"_id": doc.ID, "version": req.Version}
		res, err := r.col.ReplaceOne(ctx, filter, doc)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrConcurrentUpdate
		}
	}
	req.Version = doc.Version
	req.ClearEvents()
	return nil
}

func (r *RequestRepository) List(ctx context.Context, filter domainrequest.Filter) ([]*domainrequest.BookingRequest, error) {
	query := bson.M{}
	if filter.ListingID != "" {
		query["listing_id"] = string(filter.ListingID)
	}
	if filter.GuestID != "" {
		query["guest_id"] = string(filter.GuestID)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Take > 0 {
		opts.SetLimit(int64(filter.Take))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var requests []*domainrequest.BookingRequest
	for cur.Next(ctx) {
		var doc requestDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		requests = append(requests, doc.toDomain())
	}
	return requests, cur.Err()
}

type requestDocument struct {
	ID           string      `bson:"_id"`
	ListingID    string      `bson:"listing_id"`
	GuestID      string      `bson:"guest_id"`
	CheckIn      int64       `bson:"check_in"`
	CheckOut     int64       `bson:"check_out"`
	Guests       int         `bson:"guests"`
	Pets         bool        `bson:"pets"`
	Message      string      `bson:"message,omitempty"`
	TotalPrice   money.Money `bson:"total_price"`
	Status       string      `bson:"status"`
	AlterationOf string      `bson:"alteration_of,omitempty"`
	CreatedAt    int64       `bson:"created_at"`
	UpdatedAt    int64       `bson:"updated_at"`
	Version      int64       `bson:"version"`
}

func newRequestDocument(req *domainrequest.BookingRequest) requestDocument {
	return requestDocument{
		ID:           string(req.ID),
		ListingID:    string(req.ListingID),
		GuestID:      string(req.GuestID),
		CheckIn:      req.Stay.CheckIn.UnixMilli(),
		CheckOut:     req.Stay.CheckOut.UnixMilli(),
		Guests:       req.Guests,
		Pets:         req.Pets,
		Message:      req.Message,
		TotalPrice:   req.TotalPrice,
		Status:       string(req.Status),
		AlterationOf: string(req.AlterationOf),
		CreatedAt:    req.CreatedAt.UnixMilli(),
		UpdatedAt:    req.UpdatedAt.UnixMilli(),
		Version:      req.Version,
	}
}

func (d requestDocument) toDomain() *domainrequest.BookingRequest {
	return &domainrequest.BookingRequest{
		ID:        domainrequest.RequestID(d.ID),
		ListingID: domainlisting.ListingID(d.ListingID),
		GuestID:   domainuser.ID(d.GuestID),
		Stay: daterange.StayRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		Guests:       d.Guests,
		Pets:         d.Pets,
		Message:      d.Message,
		TotalPrice:   d.TotalPrice,
		Status:       domainrequest.Status(d.Status),
		AlterationOf: domainrequest.RequestID(d.AlterationOf),
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
}
