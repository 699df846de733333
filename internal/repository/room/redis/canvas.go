package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/watchalong/server/internal/repository/room"
)

func (r repo) getCanvasKey(roomId string) string {
	return "room:" + roomId + ":canvas"
}

// SetCanvas replaces the room's canvas snapshot wholesale. A single SET
// keeps the replacement atomic for readers.
func (r repo) SetCanvas(ctx context.Context, params *room.SetCanvasParams) error {
	r.logger.DebugContext(ctx, "repo: set canvas", "roomId", params.RoomId)

	if err := r.rc.Set(ctx, r.getCanvasKey(params.RoomId), params.Data, r.roomTTL).Err(); err != nil {
		return fmt.Errorf("failed to set canvas: %w", err)
	}

	return nil
}

func (r repo) GetCanvas(ctx context.Context, roomId string) (string, error) {
	data, err := r.rc.Get(ctx, r.getCanvasKey(roomId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", room.ErrCanvasNotFound
		}

		return "", fmt.Errorf("failed to get canvas: %w", err)
	}

	return data, nil
}

func (r repo) RemoveCanvas(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "repo: remove canvas", "roomId", roomId)

	if err := r.rc.Del(ctx, r.getCanvasKey(roomId)).Err(); err != nil {
		return fmt.Errorf("failed to remove canvas: %w", err)
	}

	return nil
}
