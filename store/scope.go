package store

import "context"

type registryKey struct{}

// WithRegistry returns a copy of ctx in which r is the registry for every
// consumer built from it.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, r)
}

// FromContext returns the registry installed in ctx. When there is none it
// returns a *MisuseError.
func FromContext(ctx context.Context) (*Registry, error) {
	if ctx == nil {
		return nil, misuse("FromContext")
	}
	r, _ := ctx.Value(registryKey{}).(*Registry)
	if r == nil {
		return nil, misuse("FromContext")
	}
	return r, nil
}

// MustFromContext is like FromContext but panics with the *MisuseError.
func MustFromContext(ctx context.Context) *Registry {
	r, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return r
}
