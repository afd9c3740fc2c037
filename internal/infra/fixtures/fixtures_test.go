package fixtures

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/datekey"
	"homestay/internal/infra/storage/memory"
)

const seed = `{
  "listings": [
    {
      "id": "villa-1",
      "host_id": "host-1",
      "title": "Hill view villa",
      "nightly_rate": "2500.50",
      "currency": "INR",
      "guests_limit": 4,
      "blocked_dates": ["2026-03-10", "not-a-date"],
      "blocks": [{"check_in": "2026-03-20", "check_out": "2026-03-23", "reason": "BOOKING", "reference": "bk-1"}]
    },
    {"id": "cabin-2", "title": "Cabin", "nightly_rate": 1800, "guests_limit": 2}
  ]
}`

func TestLoadSeedsListingsAndCalendars(t *testing.T) {
	ctx := context.Background()
	listingRepo := memory.NewListingRepository()
	availRepo := memory.NewAvailabilityRepository()

	n, err := Load(ctx, strings.NewReader(seed), Target{Listings: listingRepo, Availability: availRepo}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	villa, err := listingRepo.Listing(ctx, "villa-1")
	require.NoError(t, err)
	assert.Equal(t, "2500.5", villa.NightlyRate.Amount.String())
	assert.Equal(t, listings.ListingActive, villa.State)

	cabin, err := listingRepo.Listing(ctx, "cabin-2")
	require.NoError(t, err)
	assert.Equal(t, "1800", cabin.NightlyRate.Amount.String())
	assert.Equal(t, listings.DefaultCurrency, cabin.NightlyRate.Currency)

	cal, err := availRepo.Calendar(ctx, "villa-1")
	require.NoError(t, err)
	blocked := cal.BlockedSet()
	assert.Equal(t, []datekey.Key{"2026-03-10", "2026-03-20", "2026-03-21", "2026-03-22"}, blocked.Sorted())
}

func TestLoadStopsOnInvalidListing(t *testing.T) {
	raw := `{"listings": [{"id": "x", "title": "", "guests_limit": 1}]}`
	n, err := Load(context.Background(), strings.NewReader(raw), Target{
		Listings:     memory.NewListingRepository(),
		Availability: memory.NewAvailabilityRepository(),
	}, time.Now())
	assert.ErrorIs(t, err, listings.ErrTitleRequired)
	assert.Zero(t, n)
}
