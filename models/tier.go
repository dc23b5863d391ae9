package models

import "fmt"

// Tier is the service level a customer purchased. Tiers are totally
// ordered: FREE < MAGIC. The system only ever moves a customer upward.
type Tier string

const (
	TierFree  Tier = "FREE"
	TierMagic Tier = "MAGIC"
)

var tierRank = map[Tier]int{
	TierFree:  0,
	TierMagic: 1,
}

type tierPricing struct {
	baseCents       int64
	extraChildCents int64
}

var tierPrices = map[Tier]tierPricing{
	TierFree:  {baseCents: 0, extraChildCents: 0},
	TierMagic: {baseCents: 799, extraChildCents: 99},
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierRank[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// HasTrackerAccess reports whether the tier includes the visual tracker
// and the daily story notifications.
func (t Tier) HasTrackerAccess() bool {
	return tierRank[t] >= tierRank[TierMagic]
}

// HasSantaLetterAccess reports whether the tier includes the personalized
// Santa reply and the nice-list certificate.
func (t Tier) HasSantaLetterAccess() bool {
	return tierRank[t] >= tierRank[TierMagic]
}

// RequiresPayment reports whether intake must be deferred to payment capture.
func (t Tier) RequiresPayment() bool {
	return tierPrices[t].baseCents > 0
}

// PriceCents returns the order price in cents: base price plus the
// per-extra-child price for every child beyond the first.
func (t Tier) PriceCents(childCount int) int64 {
	p := tierPrices[t]
	extra := int64(childCount - 1)
	if extra < 0 {
		extra = 0
	}
	return p.baseCents + extra*p.extraChildCents
}

// ExtraChildCents is the per-extra-child price used for checkout line items.
func (t Tier) ExtraChildCents() int64 {
	return tierPrices[t].extraChildCents
}

// UpgradeAllowed reports whether target is a strict step up from current.
func UpgradeAllowed(current, target Tier) bool {
	cr, cok := tierRank[current]
	tr, tok := tierRank[target]
	return cok && tok && tr > cr
}
