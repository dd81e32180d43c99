package pagination_test

import (
	"testing"
	"time"

	"github.com/Maikoeliud/micro-savings-backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2025, 6, 15, 10, 30, 0, 123456789, time.UTC)
	seq := int64(42)

	token := pagination.EncodeToken(createdAt, seq)
	require.NotEmpty(t, token)

	decodedAt, decodedSeq, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(decodedAt))
	assert.Equal(t, seq, decodedSeq)
}

func TestDecodeToken_InvalidBase64(t *testing.T) {
	_, _, err := pagination.DecodeToken("this is not base64!!!")
	assert.Error(t, err)
}

func TestDecodeToken_MalformedContents(t *testing.T) {
	// Valid base64 but missing the separator.
	_, _, err := pagination.DecodeToken("aGVsbG8=")
	assert.Error(t, err)
}
