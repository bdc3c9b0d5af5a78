package docdb

import (
	"context"
	"io"
)

// DocDB persists runtime config modules and the per-session report scores
// that reports read back to compute the combined display score.
type DocDB interface {
	io.Closer

	SaveConfig(ctx context.Context, cfg map[string]string) error
	LoadConfig(ctx context.Context) (map[string]string, error)

	WriteScore(ctx context.Context, sessionID, report string, score int64) error
	QueryScores(ctx context.Context, sessionID string, f func(report string, score int64) error) error
	QuerySessions(ctx context.Context, f func(sessionID string, updatedAtTs int64) error) error
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteSessionsBeforeTs(ctx context.Context, ts int64) error
}
