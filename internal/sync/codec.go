package sync

import (
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
)

// TrailerLength is the size of the hash trailer: a SHA-256 digest rendered
// as lowercase hex.
const TrailerLength = 64

// EncodeSnapshot appends the content hash to the snapshot as a fixed-length
// trailer. The receiver slices it off by length, so the hash must be exactly
// TrailerLength lowercase hex characters.
func EncodeSnapshot(snapshot []byte, hash string) ([]byte, error) {
	if !validHash(hash) {
		return nil, fmt.Errorf("invalid content hash %q", hash)
	}
	blob := make([]byte, 0, len(snapshot)+TrailerLength)
	blob = append(blob, snapshot...)
	return append(blob, hash...), nil
}

// DecodeSnapshot splits a blob into snapshot bytes and the trailer hash.
// Blobs shorter than the trailer, or with a malformed trailer, are reported
// as common.ErrCorruptPayload without looking at the payload.
func DecodeSnapshot(blob []byte) (snapshot []byte, hash string, err error) {
	if len(blob) < TrailerLength {
		return nil, "", fmt.Errorf("%w: %d bytes is shorter than the hash trailer", common.ErrCorruptPayload, len(blob))
	}
	cut := len(blob) - TrailerLength
	hash = string(blob[cut:])
	if !validHash(hash) {
		return nil, "", fmt.Errorf("%w: malformed hash trailer", common.ErrCorruptPayload)
	}
	return blob[:cut], hash, nil
}

func validHash(hash string) bool {
	if len(hash) != TrailerLength {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
