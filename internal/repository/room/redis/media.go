package redis

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
)

func (r repo) getMediaKey(roomId string) string {
	return "room:" + roomId + ":media"
}

// SetMedia stores the room's opaque media references. Only provided fields
// are written, so a subtitle-only association keeps the existing video ref.
func (r repo) SetMedia(ctx context.Context, params *room.SetMediaParams) error {
	r.logger.DebugContext(ctx, "repo: set media", "params", params)

	fields := make([]any, 0, 4)
	if params.VideoURL != "" {
		fields = append(fields, "video_url", params.VideoURL)
	}
	if params.SubtitleURL != "" {
		fields = append(fields, "subtitle_url", params.SubtitleURL)
	}
	if len(fields) == 0 {
		return nil
	}

	mediaKey := r.getMediaKey(params.RoomId)
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, mediaKey, fields...)
	pipe.Expire(ctx, mediaKey, r.roomTTL)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set media: %w", err)
	}

	return nil
}

// GetMedia returns the room's media references; a room without any yields
// the zero value.
func (r repo) GetMedia(ctx context.Context, roomId string) (room.Media, error) {
	var media room.Media
	if err := r.rc.HGetAll(ctx, r.getMediaKey(roomId)).Scan(&media); err != nil {
		return room.Media{}, fmt.Errorf("failed to get media: %w", err)
	}

	return media, nil
}
