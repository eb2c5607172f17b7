package domain_test

import (
	"testing"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTierForTotal_Boundaries(t *testing.T) {
	cases := []struct {
		total string
		want  domain.VerificationTier
	}{
		{"0", domain.TierLow},
		{"499.99", domain.TierLow},
		{"500", domain.TierMedium},
		{"4999.99", domain.TierMedium},
		{"5000", domain.TierHigh},
		{"100000", domain.TierHigh},
	}
	for _, tc := range cases {
		got := domain.TierForTotal(decimal.RequireFromString(tc.total))
		assert.Equal(t, tc.want, got, "total %s", tc.total)
	}
}

func TestTierForTotal_Monotonic(t *testing.T) {
	rank := map[domain.VerificationTier]int{
		domain.TierLow:    0,
		domain.TierMedium: 1,
		domain.TierHigh:   2,
	}
	prev := -1
	for _, total := range []string{"0", "1", "499.99", "500", "501", "4999.99", "5000", "9999"} {
		r := rank[domain.TierForTotal(decimal.RequireFromString(total))]
		assert.GreaterOrEqual(t, r, prev, "tier dropped at total %s", total)
		prev = r
	}
}

func TestApplyTier_ClearsStaleIDs(t *testing.T) {
	primary := &domain.IDDocument{Type: domain.IDPassport, Number: "P123"}
	secondary := &domain.IDDocument{Type: domain.IDDrivingLicence, Number: "D456"}

	v := domain.Verification{PrimaryID: primary, SecondaryID: secondary}
	v.ApplyTier(domain.TierHigh)
	assert.NotNil(t, v.PrimaryID)
	assert.NotNil(t, v.SecondaryID)

	v.ApplyTier(domain.TierMedium)
	assert.NotNil(t, v.PrimaryID)
	assert.Nil(t, v.SecondaryID, "downgrade to MEDIUM must discard the secondary ID")

	v = domain.Verification{PrimaryID: primary, SecondaryID: secondary}
	v.ApplyTier(domain.TierLow)
	assert.Nil(t, v.PrimaryID, "downgrade to LOW must discard both IDs")
	assert.Nil(t, v.SecondaryID)
}
