package backup

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dmitrijs2005/daybook/internal/common"
)

// compress gzips the snapshot. Compression is best effort: when the writer
// fails for any reason the raw bytes are stored instead, because a readable
// backup beats a small one.
func compress(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return data
	}
	if err := zw.Close(); err != nil {
		return data
	}
	return buf.Bytes()
}

// decompress reverses compress. Payloads without the gzip magic bytes are
// returned as-is, so backups stored raw by the fallback path restore fine.
// A payload that claims to be gzip but does not inflate is corrupt.
func decompress(payload []byte) ([]byte, error) {
	if len(payload) < 2 || payload[0] != 0x1f || payload[1] != 0x8b {
		return payload, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptPayload, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptPayload, err)
	}
	return data, nil
}
