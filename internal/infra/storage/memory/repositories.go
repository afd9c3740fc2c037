package memory

import (
	"context"
	"sort"
	"sync"

	"homestay/internal/domain/availability"
	"homestay/internal/domain/listings"
	"homestay/internal/domain/settings"
)

// ListingRepository keeps listings in a map for local runs and tests.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[listings.ListingID]*listings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[listings.ListingID]*listings.Listing)}
}

// Listing returns a copy so callers cannot mutate the stored entry.
func (r *ListingRepository) Listing(ctx context.Context, id listings.ListingID) (*listings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, listings.ErrNotFound
	}
	cp := *listing
	return &cp, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *listings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *listing
	r.items[listing.ID] = &cp
	return nil
}

func (r *ListingRepository) IDs() []listings.ListingID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]listings.ListingID, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AvailabilityRepository keeps availability calendars in memory.
type AvailabilityRepository struct {
	mu        sync.RWMutex
	calendars map[listings.ListingID]*availability.Calendar
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{calendars: make(map[listings.ListingID]*availability.Calendar)}
}

// Calendar returns a snapshot; a listing with nothing blocked gets an empty calendar.
func (r *AvailabilityRepository) Calendar(ctx context.Context, id listings.ListingID) (*availability.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, ok := r.calendars[id]
	if !ok {
		return availability.NewCalendar(id), nil
	}
	return snapshot(cal), nil
}

func (r *AvailabilityRepository) Save(ctx context.Context, calendar *availability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := snapshot(calendar)
	cp.Version++
	r.calendars[calendar.ListingID] = cp
	calendar.Version = cp.Version
	return nil
}

func snapshot(c *availability.Calendar) *availability.Calendar {
	return &availability.Calendar{
		ListingID:  c.ListingID,
		Blocks:     append([]availability.Block(nil), c.Blocks...),
		ExtraDates: append(c.ExtraDates[:0:0], c.ExtraDates...),
		Version:    c.Version,
	}
}

// SettingsStore holds the current site settings.
type SettingsStore struct {
	mu      sync.RWMutex
	current settings.SiteSettings
}

func NewSettingsStore(initial settings.SiteSettings) *SettingsStore {
	return &SettingsStore{current: initial}
}

func (s *SettingsStore) SiteSettings(ctx context.Context) (settings.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

func (s *SettingsStore) Replace(next settings.SiteSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}
