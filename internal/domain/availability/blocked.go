package availability

import (
	"sort"

	"homestay/internal/domain/shared/datekey"
	"homestay/internal/domain/shared/daterange"
)

// BlockedSet holds nights that cannot be booked. It is treated as read-only once built.
type BlockedSet struct {
	days map[datekey.Key]struct{}
}

// NewBlockedSet accepts raw YYYY-MM-DD strings; malformed entries are dropped.
func NewBlockedSet(dates ...string) BlockedSet {
	s := BlockedSet{days: make(map[datekey.Key]struct{}, len(dates))}
	for _, raw := range dates {
		if k, err := datekey.Parse(raw); err == nil {
			s.days[k] = struct{}{}
		}
	}
	return s
}

func blockedSetFromKeys(keys []datekey.Key) BlockedSet {
	s := BlockedSet{days: make(map[datekey.Key]struct{}, len(keys))}
	for _, k := range keys {
		s.days[k] = struct{}{}
	}
	return s
}

func (s BlockedSet) Has(d datekey.Key) bool {
	if s.days == nil || d.IsZero() {
		return false
	}
	_, ok := s.days[d]
	return ok
}

func (s BlockedSet) Len() int { return len(s.days) }

// Sorted returns the blocked dates in calendar order.
func (s BlockedSet) Sorted() []datekey.Key {
	out := make([]datekey.Key, 0, len(s.days))
	for k := range s.days {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AnyIn reports whether a blocked night falls in [from, to).
func (s BlockedSet) AnyIn(from, to datekey.Key) bool {
	if s.Len() == 0 || from.IsZero() || to.IsZero() || !from.Before(to) {
		return false
	}
	for _, d := range (daterange.DateRange{CheckIn: from, CheckOut: to}).Days() {
		if s.Has(d) {
			return true
		}
	}
	return false
}
