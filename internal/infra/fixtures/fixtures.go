package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"homestay/internal/domain/availability"
	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/datekey"
	"homestay/internal/domain/shared/daterange"
)

// File is the seed format: listings with their blocked ranges and loose blocked dates.
type File struct {
	Listings []Listing `json:"listings"`
}

type Listing struct {
	ID           string   `json:"id"`
	HostID       string   `json:"host_id"`
	Title        string   `json:"title"`
	NightlyRate  any      `json:"nightly_rate"`
	Currency     string   `json:"currency"`
	GuestsLimit  int      `json:"guests_limit"`
	State        string   `json:"state"`
	BlockedDates []string `json:"blocked_dates"`
	Blocks       []Block  `json:"blocks"`
}

type Block struct {
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
}

type ListingWriter interface {
	Save(ctx context.Context, listing *listings.Listing) error
}

// Target receives seeded data; memory and mongo repositories both fit.
type Target struct {
	Listings     ListingWriter
	Availability availability.Repository
}

func LoadFile(ctx context.Context, path string, target Target, now time.Time) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(ctx, f, target, now)
}

// Load decodes and saves every listing. Numbers are kept as json.Number so rates like "2500.50"
// and 2500.5 go through the same coercion.
func Load(ctx context.Context, r io.Reader, target Target, now time.Time) (int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var file File
	if err := dec.Decode(&file); err != nil {
		return 0, fmt.Errorf("fixtures: decode: %w", err)
	}
	for i, raw := range file.Listings {
		if err := save(ctx, raw, target, now); err != nil {
			return i, fmt.Errorf("fixtures: listing %q: %w", raw.ID, err)
		}
	}
	return len(file.Listings), nil
}

func save(ctx context.Context, raw Listing, target Target, now time.Time) error {
	listing, err := listings.NewListing(listings.CreateListingParams{
		ID:          listings.ListingID(raw.ID),
		Host:        listings.HostID(raw.HostID),
		Title:       raw.Title,
		NightlyRate: raw.NightlyRate,
		Currency:    raw.Currency,
		GuestsLimit: raw.GuestsLimit,
		State:       listings.ListingState(raw.State),
		Now:         now,
	})
	if err != nil {
		return err
	}
	if err := target.Listings.Save(ctx, listing); err != nil {
		return err
	}

	cal := availability.NewCalendar(listing.ID)
	for _, d := range raw.BlockedDates {
		if key, err := datekey.Parse(d); err == nil {
			cal.ExtraDates = append(cal.ExtraDates, key)
		}
	}
	for _, b := range raw.Blocks {
		checkIn, err := datekey.Parse(b.CheckIn)
		if err != nil {
			return err
		}
		checkOut, err := datekey.Parse(b.CheckOut)
		if err != nil {
			return err
		}
		dr, err := daterange.New(checkIn, checkOut)
		if err != nil {
			return err
		}
		if err := cal.BlockRange(dr, availability.BlockReason(b.Reason), b.Reference, now); err != nil {
			return err
		}
	}
	return target.Availability.Save(ctx, cal)
}
