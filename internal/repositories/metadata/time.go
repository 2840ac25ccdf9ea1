package metadata

import (
	"context"
	"time"
)

// GetTime reads a timestamp stored by SetTime. The second return value is
// false when the key is absent or holds an unparseable value.
func GetTime(ctx context.Context, r Repository, key string) (time.Time, bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return time.Time{}, false, err
	}
	if len(raw) == 0 {
		return time.Time{}, false, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, false, nil
	}
	return ts, true, nil
}

// SetTime stores a timestamp under key in RFC3339Nano form.
func SetTime(ctx context.Context, r Repository, key string, ts time.Time) error {
	return r.Set(ctx, key, []byte(ts.UTC().Format(time.RFC3339Nano)))
}
