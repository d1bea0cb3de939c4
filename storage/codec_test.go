package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("the quick brown fox ", 512))

	for _, codec := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		compressed, err := compressPayload(payload, codec)
		require.NoError(t, err)
		// Highly repetitive input must actually shrink.
		assert.Less(t, len(compressed), len(payload))

		decoded, err := decompressPayload(compressed, codec)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(payload, decoded))
	}
}

func TestPayloadIncompressibleFallsBackToStored(t *testing.T) {
	// Pseudo-random bytes do not compress; the payload must round-trip
	// through the uncompressed header path.
	payload := make([]byte, 1024)
	state := uint32(0x9e3779b9)
	for i := range payload {
		state = state*1664525 + 1013904223
		payload[i] = byte(state >> 24)
	}

	for _, codec := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		compressed, err := compressPayload(payload, codec)
		require.NoError(t, err)

		decoded, err := decompressPayload(compressed, codec)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(payload, decoded))
	}
}

func TestPayloadEmptyInput(t *testing.T) {
	compressed, err := compressPayload(nil, CompressionZSTD)
	require.NoError(t, err)

	decoded, err := decompressPayload(compressed, CompressionZSTD)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecompressRejectsTruncatedHeader(t *testing.T) {
	_, err := decompressPayload([]byte{1, 2, 3}, CompressionZSTD)
	assert.Error(t, err)
}
