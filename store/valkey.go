package store

import (
	"context"
	"time"

	valkey "github.com/valkey-io/valkey-go"
	"golang.org/x/oauth2"
)

// ValkeyTokenStore keeps the token in Valkey (Redis-compatible), so several
// operators' shells or a CI runner can share one service-account token.
type ValkeyTokenStore struct {
	client  valkey.Client
	prefix  string
	timeout time.Duration
}

// NewValkeyTokenStore creates a Valkey-backed token store.
// addr example: "127.0.0.1:6379"; prefix helps namespace keys.
func NewValkeyTokenStore(addr string, prefix string) (*ValkeyTokenStore, error) {
	cli, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "permadmin:"
	}
	return &ValkeyTokenStore{client: cli, prefix: prefix, timeout: 5 * time.Second}, nil
}

func (ts *ValkeyTokenStore) key(k string) string { return ts.prefix + k }

func (ts *ValkeyTokenStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ts.timeout)
}

func (ts *ValkeyTokenStore) Token() (*oauth2.Token, error) {
	ctx, cancel := ts.ctx()
	defer cancel()
	raw, err := ts.client.Do(ctx, ts.client.B().Get().Key(ts.key(tokenKey)).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	return tokenFromRaw(raw), nil
}

// SaveToken stores raw; when it is a JWT with exp, the key expires with it.
func (ts *ValkeyTokenStore) SaveToken(raw string) error {
	raw, err := normalizeToken(raw)
	if err != nil {
		return err
	}
	ctx, cancel := ts.ctx()
	defer cancel()
	tok := tokenFromRaw(raw)
	if ttl := time.Until(tok.Expiry); !tok.Expiry.IsZero() && ttl > time.Second {
		return ts.client.Do(ctx, ts.client.B().Set().Key(ts.key(tokenKey)).Value(raw).Ex(ttl).Build()).Error()
	}
	return ts.client.Do(ctx, ts.client.B().Set().Key(ts.key(tokenKey)).Value(raw).Build()).Error()
}

// ClearToken deletes the key; missing is not an error.
func (ts *ValkeyTokenStore) ClearToken() error {
	ctx, cancel := ts.ctx()
	defer cancel()
	return ts.client.Do(ctx, ts.client.B().Del().Key(ts.key(tokenKey)).Build()).Error()
}

func (ts *ValkeyTokenStore) Close() error {
	ts.client.Close()
	return nil
}
