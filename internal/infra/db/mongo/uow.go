package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	domainuser "staybook/internal/domain/user"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo sessions into the generic UnitOfWork interface. The
// snapshot read concern is what makes the in-transaction availability
// re-check on acceptance sound.
type Factory struct {
	DB *mongo.Database

	ListingsRepo  domainlisting.Repository
	UsersRepo     domainuser.Repository
	InventoryRepo domaininventory.Repository
	RequestsRepo  domainrequest.Repository
	BookingsRepo  domainbooking.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:   session,
		listings:  f.ListingsRepo,
		users:     f.UsersRepo,
		inventory: f.InventoryRepo,
		requests:  f.RequestsRepo,
		bookings:  f.BookingsRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

	listings  domainlisting.Repository
	users     domainuser.Repository
	inventory domaininventory.Repository
	requests  domainrequest.Repository
	bookings  domainbooking.Repository
}

func (u *Unit) Listings() domainlisting.Repository    { return u.listings }
func (u *Unit) Users() domainuser.Repository          { return u.users }
func (u *Unit) Inventory() domaininventory.Repository { return u.inventory }
func (u *Unit) Requests() domainrequest.Repository    { return u.requests }
func (u *Unit) Bookings() domainbooking.Repository    { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the session visible to the repositories so their
// reads and writes join the transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.ContextInjector = (*Unit)(nil)
