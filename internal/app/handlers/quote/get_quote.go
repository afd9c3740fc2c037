package quote

import (
	"context"

	"homestay/internal/app/dto"
	"homestay/internal/app/handlers/support"
	"homestay/internal/app/policies"
	"homestay/internal/app/queries"
	"homestay/internal/domain/availability"
	"homestay/internal/domain/pricing"
	"homestay/internal/domain/shared/money"
)

const getQuoteKey = "quote.get"

// GetQuoteQuery prices the current selection. PartialPercent is the slider value as sent; nil or
// "" uses the site default.
type GetQuoteQuery struct {
	ListingID      string
	CheckIn        string
	CheckOut       string
	PaymentType    string
	PartialPercent any
}

func (GetQuoteQuery) Key() string { return getQuoteKey }

func (q GetQuoteQuery) Validate() error {
	return support.RequireListingID(q.ListingID)
}

type GetQuoteHandler struct {
	Listings     policies.ListingReader
	Availability availability.Repository
	Settings     policies.SettingsReader
	Observer     policies.QuoteObserver
}

func (h *GetQuoteHandler) Handle(ctx context.Context, q GetQuoteQuery) (dto.Quote, error) {
	listing, err := support.LoadListing(ctx, h.Listings, q.ListingID)
	if err != nil {
		return dto.Quote{}, err
	}
	blocked, err := support.LoadBlocked(ctx, h.Availability, listing.ID)
	if err != nil {
		return dto.Quote{}, err
	}
	site, err := support.LoadSettings(ctx, h.Settings)
	if err != nil {
		return dto.Quote{}, err
	}

	sel := availability.SelectionFromInput(q.CheckIn, q.CheckOut)
	gate := availability.Evaluate(sel, blocked)
	payment := site.PaymentPolicy(q.PaymentType, q.PartialPercent)
	result := pricing.Compute(gate.Nights, listing.NightlyRate.Amount, site.Fee, payment)
	if h.Observer != nil {
		h.Observer.ObserveQuote(payment.PaymentType, gate.Submittable)
	}

	out := dto.Quote{
		ListingID:      string(listing.ID),
		Currency:       listing.NightlyRate.Currency,
		NightlyRate:    money.Float(listing.NightlyRate.Amount),
		Selection:      dto.MapSelection(sel),
		Gate:           gate,
		PaymentType:    payment.PaymentType,
		PartialPayment: dto.MapPartialPayment(site.PartialPayment),
		Pricing:        result,
	}
	if gate.HasBlockedDates {
		out.Warning = dto.BlockedDatesWarning
	}
	return out, nil
}

var _ queries.Handler[GetQuoteQuery, dto.Quote] = (*GetQuoteHandler)(nil)
