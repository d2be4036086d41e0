// tokenstore/tokenstore.go
/* Package tokenstore holds the access and refresh tokens used by the http client.
The client never keeps a token in memory of its own: every request reads the access token through a Store,
and a successful refresh writes the new one back. Backends only need to offer get/set for each token. */
package tokenstore

import "context"

// Store reads and writes the two tokens. A missing token is reported as ""
// with a nil error.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	RefreshToken(ctx context.Context) (string, error)
	SetRefreshToken(ctx context.Context, token string) error
}

// GetFunc reads one token.
type GetFunc func(ctx context.Context) (string, error)

// SetFunc writes one token.
type SetFunc func(ctx context.Context, token string) error

// Accessors overrides individual operations of a Store. Nil fields fall back
// to the underlying store, so each accessor is defaulted independently.
type Accessors struct {
	GetAccess  GetFunc
	SetAccess  SetFunc
	GetRefresh GetFunc
	SetRefresh SetFunc
}

// IsZero reports whether no accessor is overridden.
func (a Accessors) IsZero() bool {
	return a.GetAccess == nil && a.SetAccess == nil && a.GetRefresh == nil && a.SetRefresh == nil
}

// WithAccessors layers acc over base. When acc overrides nothing base is returned as is.
func WithAccessors(base Store, acc Accessors) Store {
	if acc.IsZero() {
		return base
	}
	return &accessorStore{base: base, acc: acc}
}

type accessorStore struct {
	base Store
	acc  Accessors
}

func (s *accessorStore) AccessToken(ctx context.Context) (string, error) {
	if s.acc.GetAccess != nil {
		return s.acc.GetAccess(ctx)
	}
	return s.base.AccessToken(ctx)
}

func (s *accessorStore) SetAccessToken(ctx context.Context, token string) error {
	if s.acc.SetAccess != nil {
		return s.acc.SetAccess(ctx, token)
	}
	return s.base.SetAccessToken(ctx, token)
}

func (s *accessorStore) RefreshToken(ctx context.Context) (string, error) {
	if s.acc.GetRefresh != nil {
		return s.acc.GetRefresh(ctx)
	}
	return s.base.RefreshToken(ctx)
}

func (s *accessorStore) SetRefreshToken(ctx context.Context, token string) error {
	if s.acc.SetRefresh != nil {
		return s.acc.SetRefresh(ctx, token)
	}
	return s.base.SetRefreshToken(ctx, token)
}
