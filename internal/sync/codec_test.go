package sync

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Roundtrip(t *testing.T) {
	payload := []byte(`{"version":1}`)
	hash := hashOf(payload)

	blob, err := EncodeSnapshot(payload, hash)
	require.NoError(t, err)
	assert.Len(t, blob, len(payload)+TrailerLength)

	got, gotHash, err := DecodeSnapshot(blob)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, hash, gotHash)
}

func TestEncodeSnapshot_RejectsBadHash(t *testing.T) {
	_, err := EncodeSnapshot([]byte("data"), "abc")
	assert.Error(t, err)

	upper := strings.ToUpper(hashOf([]byte("data")))
	_, err = EncodeSnapshot([]byte("data"), upper)
	assert.Error(t, err)
}

func TestDecodeSnapshot_ShortBlobIsCorrupt(t *testing.T) {
	_, _, err := DecodeSnapshot([]byte("way too short"))
	assert.ErrorIs(t, err, common.ErrCorruptPayload)
}

func TestDecodeSnapshot_MalformedTrailerIsCorrupt(t *testing.T) {
	blob := append([]byte("payload"), []byte(strings.Repeat("Z", TrailerLength))...)
	_, _, err := DecodeSnapshot(blob)
	assert.ErrorIs(t, err, common.ErrCorruptPayload)
}

func TestDecodeSnapshot_TrailerOnly(t *testing.T) {
	// a 64-byte blob is an empty snapshot plus its hash
	hash := hashOf(nil)
	got, gotHash, err := DecodeSnapshot([]byte(hash))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, hash, gotHash)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "syncing", StateSyncing.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", State(42).String())
}
