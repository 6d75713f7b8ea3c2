package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

type InventoryRepository struct {
	col *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{col: db.Collection("inventory_days")}
}

func (r *InventoryRepository) DaysInRange(ctx context.Context, id domainlisting.ListingID, stay daterange.StayRange) ([]*domaininventory.Day, error) {
	filter := bson.M{
		"listing_id": string(id),
		"date": bson.M{
			"$gte": stay.CheckIn.UnixMilli(),
			"$lt":  stay.CheckOut.UnixMilli(),
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *InventoryRepository) DaysByBooking(ctx context.Context, bookingID string) ([]*domaininventory.Day, error) {
	filter := bson.M{"booking_id": bookingID}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *InventoryRepository) Save(ctx context.Context, day *domaininventory.Day) error {
	doc := newDayDocument(day)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *InventoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domaininventory.Day, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var days []*domaininventory.Day
	for cur.Next(ctx) {
		var doc dayDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		days = append(days, doc.toDomain())
	}
	return days, cur.Err()
}

// dayDocument keys one calendar date of one listing. The _id combines both
// so concurrent acceptance transactions writing the same date conflict at
// the document level.
type dayDocument struct {
	ID        string      `bson:"_id"`
	ListingID string      `bson:"listing_id"`
	Date      int64       `bson:"date"`
	Available bool        `bson:"available"`
	Price     money.Money `bson:"price"`
	BookingID string      `bson:"booking_id,omitempty"`
}

func newDayDocument(d *domaininventory.Day) dayDocument {
	return dayDocument{
		ID:        string(d.ListingID) + ":" + d.Date.Format("2006-01-02"),
		ListingID: string(d.ListingID),
		Date:      d.Date.UnixMilli(),
		Available: d.Available,
		Price:     d.Price,
		BookingID: d.BookingID,
	}
}

func (d dayDocument) toDomain() *domaininventory.Day {
	return &domaininventory.Day{
		ListingID: domainlisting.ListingID(d.ListingID),
		Date:      timestampToTime(d.Date),
		Available: d.Available,
		Price:     d.Price,
		BookingID: d.BookingID,
	}
}
