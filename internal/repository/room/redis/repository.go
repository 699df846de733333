package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc      *redis.Client
	logger  *slog.Logger
	roomTTL time.Duration

	appendScript string
}

// NewRepo builds the redis-backed room repository. Every key of a room is
// re-armed with roomTTL on each touch, so an idle room ages out of redis on
// its own.
func NewRepo(rc *redis.Client, logger *slog.Logger, roomTTL time.Duration) *repo {
	return &repo{
		rc:      rc,
		logger:  logger,
		roomTTL: roomTTL,
		// appends a member to a zset with a score one above the current
		// maximum, preserving insertion order
		appendScript: rc.ScriptLoad(context.Background(), `
			local maxScore = redis.call('ZREVRANGE', KEYS[1], 0, 0, 'WITHSCORES')
			local nextScore = 1
			if #maxScore > 0 then
				nextScore = tonumber(maxScore[2]) + 1
			end
			redis.call('ZADD', KEYS[1], nextScore, ARGV[1])
			return nextScore
		`).Val(),
	}
}
