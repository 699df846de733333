package redis

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
)

func (r repo) getPlayerKey(roomId string) string {
	return "room:" + roomId + ":player"
}

func (r repo) SetPlayer(ctx context.Context, params *room.SetPlayerParams) error {
	r.logger.DebugContext(ctx, "repo: set player", "params", params)

	player := room.Player{
		IsPlaying:    params.IsPlaying,
		CurrentTime:  params.CurrentTime,
		PlaybackRate: params.PlaybackRate,
		UpdatedAt:    params.UpdatedAt,
	}

	playerKey := r.getPlayerKey(params.RoomId)
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, playerKey, player)
	pipe.Expire(ctx, playerKey, r.roomTTL)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (r repo) IsPlayerExists(ctx context.Context, roomId string) (bool, error) {
	res, err := r.rc.Exists(ctx, r.getPlayerKey(roomId)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if player exists: %w", err)
	}

	return res > 0, nil
}

func (r repo) GetPlayer(ctx context.Context, roomId string) (room.Player, error) {
	playerKey := r.getPlayerKey(roomId)

	res, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return room.Player{}, fmt.Errorf("failed to get player: %w", err)
	}
	if res == 0 {
		return room.Player{}, room.ErrPlayerNotFound
	}

	var player room.Player
	if err := r.rc.HGetAll(ctx, playerKey).Scan(&player); err != nil {
		return room.Player{}, fmt.Errorf("failed to get player: %w", err)
	}

	r.rc.Expire(ctx, playerKey, r.roomTTL)

	return player, nil
}

func (r repo) UpdatePlayerState(ctx context.Context, params *room.UpdatePlayerStateParams) error {
	r.logger.DebugContext(ctx, "repo: update player state", "params", params)

	playerKey := r.getPlayerKey(params.RoomId)

	res, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return err
	}
	if res == 0 {
		return room.ErrPlayerNotFound
	}

	if err := r.rc.HSet(ctx, playerKey,
		"is_playing", params.IsPlaying,
		"current_time", params.CurrentTime,
		"playback_rate", params.PlaybackRate,
		"updated_at", params.UpdatedAt,
	).Err(); err != nil {
		return err
	}

	r.rc.Expire(ctx, playerKey, r.roomTTL)

	return nil
}

func (r repo) UpdatePlayerPosition(ctx context.Context, params *room.UpdatePlayerPositionParams) error {
	r.logger.DebugContext(ctx, "repo: update player position", "params", params)

	playerKey := r.getPlayerKey(params.RoomId)

	res, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return err
	}
	if res == 0 {
		return room.ErrPlayerNotFound
	}

	if err := r.rc.HSet(ctx, playerKey,
		"current_time", params.CurrentTime,
		"updated_at", params.UpdatedAt,
	).Err(); err != nil {
		return err
	}

	r.rc.Expire(ctx, playerKey, r.roomTTL)

	return nil
}
