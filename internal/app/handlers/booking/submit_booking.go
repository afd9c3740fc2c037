package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"homestay/internal/app/commands"
	"homestay/internal/app/dto"
	"homestay/internal/app/handlers/support"
	"homestay/internal/app/outbox"
	"homestay/internal/app/policies"
	"homestay/internal/domain/availability"
	domainbooking "homestay/internal/domain/booking"
	"homestay/internal/domain/listings"
	"homestay/internal/domain/pricing"
)

const submitBookingKey = "booking.submit"

// SubmitBookingCommand hands a finished selection to the booking API through the outbox.
type SubmitBookingCommand struct {
	ListingID      string
	CheckIn        string
	CheckOut       string
	Guests         int
	Message        string
	PaymentType    string
	PartialPercent any
	RequestKey     string
}

func (SubmitBookingCommand) Key() string { return submitBookingKey }

func (c SubmitBookingCommand) IdempotencyKey() string { return c.RequestKey }

func (SubmitBookingCommand) ResultPrototype() any { return &dto.BookingSubmission{} }

func (c SubmitBookingCommand) Validate() error {
	if err := support.RequireListingID(c.ListingID); err != nil {
		return err
	}
	if c.Guests < 1 {
		return support.Invalid("guests", "must be at least 1")
	}
	return nil
}

type SubmitBookingHandler struct {
	Listings     policies.ListingReader
	Availability availability.Repository
	Settings     policies.SettingsReader
	Clock        policies.Clock
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
	IDGenerator  func() string
}

func (h *SubmitBookingHandler) Handle(ctx context.Context, cmd SubmitBookingCommand) (dto.BookingSubmission, error) {
	if h.Outbox == nil {
		return dto.BookingSubmission{}, support.ErrMissingDeps
	}
	listing, err := support.LoadListing(ctx, h.Listings, cmd.ListingID)
	if err != nil {
		return dto.BookingSubmission{}, err
	}
	if !listing.Bookable() {
		return dto.BookingSubmission{}, listings.ErrNotBookable
	}
	if !listing.AcceptsGuests(cmd.Guests) {
		return dto.BookingSubmission{}, fmt.Errorf("%w: limit is %d", domainbooking.ErrTooManyGuests, listing.GuestsLimit)
	}
	blocked, err := support.LoadBlocked(ctx, h.Availability, listing.ID)
	if err != nil {
		return dto.BookingSubmission{}, err
	}

	sel := availability.SelectionFromInput(cmd.CheckIn, cmd.CheckOut)
	gate := availability.Evaluate(sel, blocked)
	if !gate.Submittable {
		return dto.BookingSubmission{}, fmt.Errorf("%w: %s", domainbooking.ErrNotSubmittable, gate.Reason)
	}

	site, err := support.LoadSettings(ctx, h.Settings)
	if err != nil {
		return dto.BookingSubmission{}, err
	}
	payment := site.PaymentPolicy(cmd.PaymentType, cmd.PartialPercent)
	result := pricing.Compute(gate.Nights, listing.NightlyRate.Amount, site.Fee, payment)

	req, err := domainbooking.NewRequest(domainbooking.CreateParams{
		ID:          domainbooking.RequestID(h.nextID()),
		ListingID:   listing.ID,
		Range:       sel.Range(),
		Guests:      cmd.Guests,
		Message:     cmd.Message,
		Currency:    listing.NightlyRate.Currency,
		PaymentType: payment.PaymentType,
		Pricing:     result,
		Today:       h.Clock.Today(),
		CreatedAt:   h.Clock.Now(),
	})
	if err != nil {
		return dto.BookingSubmission{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, req.Drain()); err != nil {
		return dto.BookingSubmission{}, err
	}
	return dto.MapBookingRequest(req), nil
}

func (h *SubmitBookingHandler) nextID() string {
	if h.IDGenerator != nil {
		return h.IDGenerator()
	}
	return uuid.NewString()
}

var _ commands.Handler[SubmitBookingCommand, dto.BookingSubmission] = (*SubmitBookingHandler)(nil)
