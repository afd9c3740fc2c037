package listings

import (
	"errors"
	"strings"
	"time"

	"homestay/internal/domain/shared/money"
)

var (
	ErrGuestsLimit   = errors.New("listings: guests limit must be at least 1")
	ErrTitleRequired = errors.New("listings: title is required")
	ErrNotBookable   = errors.New("listings: listing is not accepting bookings")
	ErrNotFound      = errors.New("listings: listing not found")
)

type ListingID string
type HostID string

type ListingState string

const (
	ListingDraft     ListingState = "DRAFT"
	ListingActive    ListingState = "ACTIVE"
	ListingSuspended ListingState = "SUSPENDED"
)

const DefaultCurrency = "INR"

// Listing is the slice of listing data the booking widget needs.
type Listing struct {
	ID          ListingID
	Host        HostID
	Title       string
	NightlyRate money.Money
	GuestsLimit int
	State       ListingState
	UpdatedAt   time.Time
}

type CreateListingParams struct {
	ID          ListingID
	Host        HostID
	Title       string
	NightlyRate any
	Currency    string
	GuestsLimit int
	State       ListingState
	Now         time.Time
}

// NewListing validates params. The nightly rate is taken as-is from listing data (string or
// number) and anything unparseable or negative becomes zero.
func NewListing(p CreateListingParams) (*Listing, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, ErrTitleRequired
	}
	if p.GuestsLimit < 1 {
		return nil, ErrGuestsLimit
	}
	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	rate, err := money.New(money.CoerceNonNegative(p.NightlyRate), currency)
	if err != nil {
		return nil, err
	}
	state := p.State
	if state == "" {
		state = ListingActive
	}
	return &Listing{
		ID:          p.ID,
		Host:        p.Host,
		Title:       strings.TrimSpace(p.Title),
		NightlyRate: rate,
		GuestsLimit: p.GuestsLimit,
		State:       state,
		UpdatedAt:   p.Now.UTC(),
	}, nil
}

func (l *Listing) Bookable() bool {
	return l != nil && l.State == ListingActive
}

func (l *Listing) AcceptsGuests(n int) bool {
	return n >= 1 && n <= l.GuestsLimit
}
