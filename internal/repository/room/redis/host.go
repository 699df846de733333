package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/watchalong/server/internal/repository/room"
)

func (r repo) getHostKey(roomId string) string {
	return "room:" + roomId + ":host"
}

// SetHost points the room at its controlling connection, displacing any
// previous host.
func (r repo) SetHost(ctx context.Context, roomId, connId string) error {
	r.logger.DebugContext(ctx, "repo: set host", "roomId", roomId, "connId", connId)

	hostKey := r.getHostKey(roomId)
	if err := r.rc.Set(ctx, hostKey, connId, r.roomTTL).Err(); err != nil {
		return fmt.Errorf("failed to set host: %w", err)
	}

	return nil
}

func (r repo) GetHostId(ctx context.Context, roomId string) (string, error) {
	hostId, err := r.rc.Get(ctx, r.getHostKey(roomId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", room.ErrHostNotFound
		}

		return "", fmt.Errorf("failed to get host id: %w", err)
	}

	return hostId, nil
}

func (r repo) RemoveHost(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "repo: remove host", "roomId", roomId)

	if err := r.rc.Del(ctx, r.getHostKey(roomId)).Err(); err != nil {
		return fmt.Errorf("failed to remove host: %w", err)
	}

	return nil
}
