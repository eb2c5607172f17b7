package pagination_test

import (
	"testing"
	"time"

	"github.com/fxbureau/bureau_backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 14, 9, 30, 0, 123456789, time.UTC)
	token := pagination.EncodeToken(createdAt, "txn-123")

	gotTime, gotID, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, "txn-123", gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("%%%not-base64%%%")
	assert.Error(t, err)

	// Valid base64 but missing the separator.
	_, _, err = pagination.DecodeToken("bm8tc2VwYXJhdG9y")
	assert.Error(t, err)
}
