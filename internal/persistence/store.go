package persistence

import "context"

// CollectionStore persists whole named collections as opaque serialized
// payloads. Save always replaces the prior value; there are no partial
// writes. Load reports found=false when no value exists under the key.
//
// Decoding is the caller's concern: a payload that fails to decode is
// treated as absent (reseed path), not as a store failure.
type CollectionStore interface {
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
}
