package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"homestay/internal/domain/availability"
	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/datekey"
	"homestay/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type AvailabilityRepository struct {
	col *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) *AvailabilityRepository {
	return &AvailabilityRepository{col: db.Collection("availability_calendars")}
}

// Calendar returns an empty calendar for listings that never had anything blocked.
func (r *AvailabilityRepository) Calendar(ctx context.Context, id listings.ListingID) (*availability.Calendar, error) {
	var doc calendarDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return availability.NewCalendar(id), nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toCalendar(), nil
}

// Save upserts with an optimistic version check.
func (r *AvailabilityRepository) Save(ctx context.Context, c *availability.Calendar) error {
	doc := newCalendarDocument(c)
	doc.Version = c.Version + 1
	filter := bson.M{"_id": doc.ID, "version": c.Version}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	c.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID           string          `bson:"_id"`
	Blocks       []blockDocument `bson:"blocks"`
	BlockedDates []string        `bson:"blocked_dates"`
	Version      int64           `bson:"version"`
}

type blockDocument struct {
	CheckIn   string    `bson:"check_in"`
	CheckOut  string    `bson:"check_out"`
	Reason    string    `bson:"reason"`
	Reference string    `bson:"reference"`
	CreatedAt time.Time `bson:"created_at"`
}

func newCalendarDocument(c *availability.Calendar) calendarDocument {
	doc := calendarDocument{ID: string(c.ListingID), Version: c.Version}
	for _, b := range c.Blocks {
		doc.Blocks = append(doc.Blocks, blockDocument{
			CheckIn:   b.Range.CheckIn.String(),
			CheckOut:  b.Range.CheckOut.String(),
			Reason:    string(b.Reason),
			Reference: b.Reference,
			CreatedAt: b.CreatedAt,
		})
	}
	for _, d := range c.ExtraDates {
		doc.BlockedDates = append(doc.BlockedDates, d.String())
	}
	return doc
}

// toCalendar skips malformed entries rather than failing the whole read.
func (d calendarDocument) toCalendar() *availability.Calendar {
	cal := availability.NewCalendar(listings.ListingID(d.ID))
	cal.Version = d.Version
	for _, b := range d.Blocks {
		dr, err := daterange.New(datekey.ParseOptional(b.CheckIn), datekey.ParseOptional(b.CheckOut))
		if err != nil {
			continue
		}
		cal.Blocks = append(cal.Blocks, availability.Block{
			Range:     dr,
			Reason:    availability.BlockReason(b.Reason),
			Reference: b.Reference,
			CreatedAt: b.CreatedAt,
		})
	}
	for _, raw := range d.BlockedDates {
		if key, err := datekey.Parse(raw); err == nil {
			cal.ExtraDates = append(cal.ExtraDates, key)
		}
	}
	return cal
}
