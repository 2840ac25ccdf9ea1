package sync

import "context"

// Resolution is the outcome of a conflict: which side becomes authoritative.
type Resolution int

const (
	// UseCloud imports the remote snapshot, replacing local data. This is
	// the default policy when no resolver is registered.
	UseCloud Resolution = iota

	// UseLocal re-uploads the local snapshot, overwriting the cloud.
	UseLocal

	// Cancel aborts the attempt without touching either side. The conflict
	// comes back on the next change or reconnect.
	Cancel
)

// Conflict carries both sides of a hash divergence to the resolver.
type Conflict struct {
	LocalSnapshot  []byte
	RemoteSnapshot []byte
	LocalHash      string
	RemoteHash     string
}

// Resolver decides a conflict. It is invoked only when the hashes differ,
// never on equal content. A resolver error is treated as Cancel.
type Resolver interface {
	Resolve(ctx context.Context, c *Conflict) (Resolution, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, c *Conflict) (Resolution, error)

func (f ResolverFunc) Resolve(ctx context.Context, c *Conflict) (Resolution, error) {
	return f(ctx, c)
}
