package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageToken_RoundTrip(t *testing.T) {
	for _, offset := range []int{0, 1, 100, 99999} {
		got, err := decodePageToken(encodePageToken(offset))
		require.NoError(t, err)
		assert.Equal(t, offset, got)
	}

	// Empty token is the first page.
	got, err := decodePageToken("")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestPageToken_Malformed(t *testing.T) {
	for _, token := range []string{"not base64!", "bzotMQ", "b2Zmc2V0", "bzo"} {
		_, err := decodePageToken(token)
		assert.Error(t, err, "token %q should be rejected", token)
	}
}
