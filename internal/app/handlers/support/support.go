package support

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homestay/internal/app/policies"
	"homestay/internal/domain/availability"
	"homestay/internal/domain/listings"
	"homestay/internal/domain/settings"
)

var (
	ErrInvalidInput   = errors.New("app: invalid input")
	ErrMissingDeps    = errors.New("app: handler dependencies not configured")
	ErrListingIDBlank = errors.New("app: listing id is required")
)

// Invalid wraps a field problem so the transport can answer 400.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

func RequireListingID(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrListingIDBlank)
	}
	return nil
}

func LoadListing(ctx context.Context, reader policies.ListingReader, id string) (*listings.Listing, error) {
	if reader == nil {
		return nil, ErrMissingDeps
	}
	listing, err := reader.Listing(ctx, listings.ListingID(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, listings.ErrNotFound
	}
	return listing, nil
}

// LoadBlocked expands the listing's calendar into the set used for one computation pass.
func LoadBlocked(ctx context.Context, repo availability.Repository, id listings.ListingID) (availability.BlockedSet, error) {
	if repo == nil {
		return availability.BlockedSet{}, ErrMissingDeps
	}
	cal, err := repo.Calendar(ctx, id)
	if err != nil {
		return availability.BlockedSet{}, fmt.Errorf("load calendar %s: %w", id, err)
	}
	return cal.BlockedSet(), nil
}

func LoadSettings(ctx context.Context, reader policies.SettingsReader) (settings.SiteSettings, error) {
	if reader == nil {
		return settings.SiteSettings{}, nil
	}
	s, err := reader.SiteSettings(ctx)
	if err != nil {
		return settings.SiteSettings{}, fmt.Errorf("load site settings: %w", err)
	}
	return s, nil
}
