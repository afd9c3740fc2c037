package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"homestay/internal/domain/listings"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) Listing(ctx context.Context, id listings.ListingID) (*listings.Listing, error) {
	var doc listingDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, listings.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toListing()
}

func (r *ListingRepository) Save(ctx context.Context, l *listings.Listing) error {
	doc := listingDocument{
		ID:          string(l.ID),
		HostID:      string(l.Host),
		Title:       l.Title,
		NightlyRate: l.NightlyRate.Amount.String(),
		Currency:    l.NightlyRate.Currency,
		GuestsLimit: l.GuestsLimit,
		State:       string(l.State),
		UpdatedAt:   l.UpdatedAt,
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

// listingDocument stores nightly_rate as whatever the listing service wrote: string, int,
// double or decimal128.
type listingDocument struct {
	ID          string    `bson:"_id"`
	HostID      string    `bson:"host_id"`
	Title       string    `bson:"title"`
	NightlyRate any       `bson:"nightly_rate"`
	Currency    string    `bson:"currency"`
	GuestsLimit int       `bson:"guests_limit"`
	State       string    `bson:"state"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d listingDocument) toListing() (*listings.Listing, error) {
	rate := d.NightlyRate
	if dec, ok := rate.(primitive.Decimal128); ok {
		rate = dec.String()
	}
	return listings.NewListing(listings.CreateListingParams{
		ID:          listings.ListingID(d.ID),
		Host:        listings.HostID(d.HostID),
		Title:       d.Title,
		NightlyRate: rate,
		Currency:    d.Currency,
		GuestsLimit: d.GuestsLimit,
		State:       listings.ListingState(d.State),
		Now:         d.UpdatedAt,
	})
}
