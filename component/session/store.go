// Package session keeps the per-session report scores that every report
// reads back to compute the overall display score.
package session

import (
	"context"
	"errors"
	"io"
)

var ErrStoreIsClosed = errors.New("session store is closed")

// DefaultSessionID is used when no session is given.
const DefaultSessionID = "default"

type Info struct {
	ID          string `json:"id" yaml:"id"`
	UpdatedAtTs int64  `json:"updated_at_ts" yaml:"updated_at_ts"`
}

// Store holds one score per report key and session. Writes overwrite; the
// last writer for a key wins.
type Store interface {
	io.Closer
	Put(ctx context.Context, sessionID, key string, score int64) error
	Scores(ctx context.Context, sessionID string) (map[string]int64, error)
	Sessions(ctx context.Context) ([]Info, error)
	Reset(ctx context.Context, sessionID string) error
}
