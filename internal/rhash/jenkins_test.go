package rhash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJenkins32Bytes_ReferenceFingerprints(t *testing.T) {
	assert.Equal(t, uint32(0x2eb8e7cd), Jenkins32Bytes([]byte("Wikipedia")))
	assert.Equal(t, uint32(0x519e91f5), Jenkins32Bytes([]byte("The quick brown fox jumps over the lazy dog")))
}

func TestJenkins32_MatchesBytesVariant(t *testing.T) {
	data := "The quick brown fox jumps over the lazy dog"

	got, err := Jenkins32(strings.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, Jenkins32Bytes([]byte(data)), got)
}

func TestJenkins32_ShortReadIsError(t *testing.T) {
	_, err := Jenkins32(strings.NewReader("abc"), 10)
	assert.Error(t, err)
}

func TestJenkins32Bytes_Empty(t *testing.T) {
	// hash(nil) must still run the finalization mix, not just return 0.
	var zero uint32
	zero += zero << 3
	zero ^= zero >> 11
	zero += zero << 15
	assert.Equal(t, zero, Jenkins32Bytes(nil))
}

func TestJenkins32Bytes_OrderSensitive(t *testing.T) {
	assert.NotEqual(t, Jenkins32Bytes([]byte("ab")), Jenkins32Bytes([]byte("ba")))
}

func TestAdler32Bytes_ReferenceFingerprint(t *testing.T) {
	assert.Equal(t, uint32(0x11E60398), Adler32Bytes([]byte("Wikipedia")))
}
