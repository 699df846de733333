package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

const (
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionRate  = "rate"
)

type ControlPlaybackParams struct {
	Action       string
	CurrentTime  float64
	PlaybackRate float64
	SenderId     string
	RoomId       string
}

type ControlPlaybackResponse struct {
	Playback SyncPlayback
	// Conns are the room members to fan out to, excluding the host itself.
	Conns []*wsrouter.Conn
}

// ControlPlayback applies an explicit host control action. play and pause
// set the playing flag; rate leaves it unchanged. Position and rate are
// always taken from the action. Non-host senders are rejected with
// ErrPermissionDenied and cause neither mutation nor broadcast.
func (s *service) ControlPlayback(ctx context.Context, params *ControlPlaybackParams) (ControlPlaybackResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.checkIfHost(ctx, params.RoomId, params.SenderId); err != nil {
		return ControlPlaybackResponse{}, err
	}

	player, err := s.getPlayer(ctx, params.RoomId)
	if err != nil {
		return ControlPlaybackResponse{}, err
	}

	playing := player.IsPlaying
	switch params.Action {
	case ActionPlay:
		playing = true
	case ActionPause:
		playing = false
	}

	return s.applyPlayback(ctx, params.RoomId, params.SenderId, room.UpdatePlayerStateParams{
		IsPlaying:    playing,
		CurrentTime:  params.CurrentTime,
		PlaybackRate: params.PlaybackRate,
		UpdatedAt:    s.stamp(player.UpdatedAt),
		RoomId:       params.RoomId,
	})
}

type SyncProgressParams struct {
	CurrentTime  float64
	IsPlaying    bool
	PlaybackRate float64
	SenderId     string
	RoomId       string
}

// SyncProgress is the host heartbeat: a periodic full republish of the
// playback tuple that lets late joiners and desynced viewers self-heal.
// Authorization and effect match a control action.
func (s *service) SyncProgress(ctx context.Context, params *SyncProgressParams) (ControlPlaybackResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.checkIfHost(ctx, params.RoomId, params.SenderId); err != nil {
		return ControlPlaybackResponse{}, err
	}

	player, err := s.getPlayer(ctx, params.RoomId)
	if err != nil {
		return ControlPlaybackResponse{}, err
	}

	return s.applyPlayback(ctx, params.RoomId, params.SenderId, room.UpdatePlayerStateParams{
		IsPlaying:    params.IsPlaying,
		CurrentTime:  params.CurrentTime,
		PlaybackRate: params.PlaybackRate,
		UpdatedAt:    s.stamp(player.UpdatedAt),
		RoomId:       params.RoomId,
	})
}

type SeekParams struct {
	CurrentTime float64
	SenderId    string
	RoomId      string
}

type SeekResponse struct {
	Playback SyncPlayback
	// Conns are every room member, the requester included.
	Conns []*wsrouter.Conn
}

// Seek moves the position only, keeping the playing flag and rate. Any
// connection may seek an existing room; the resulting state goes to all
// members including the requester.
func (s *service) Seek(ctx context.Context, params *SeekParams) (SeekResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	player, err := s.getPlayer(ctx, params.RoomId)
	if err != nil {
		return SeekResponse{}, err
	}

	updatedAt := s.stamp(player.UpdatedAt)
	if err := s.roomRepo.UpdatePlayerPosition(ctx, &room.UpdatePlayerPositionParams{
		CurrentTime: params.CurrentTime,
		UpdatedAt:   updatedAt,
		RoomId:      params.RoomId,
	}); err != nil {
		return SeekResponse{}, fmt.Errorf("failed to update player position: %w", err)
	}

	conns, err := s.getConns(ctx, params.RoomId)
	if err != nil {
		return SeekResponse{}, err
	}

	return SeekResponse{
		Playback: SyncPlayback{
			Playing:         player.IsPlaying,
			CurrentTime:     params.CurrentTime,
			PlaybackRate:    player.PlaybackRate,
			ServerTimestamp: updatedAt,
		},
		Conns: conns,
	}, nil
}

func (s *service) getPlayer(ctx context.Context, roomId string) (room.Player, error) {
	player, err := s.roomRepo.GetPlayer(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrPlayerNotFound) {
			return room.Player{}, ErrRoomNotFound
		}

		return room.Player{}, err
	}

	return player, nil
}

func (s *service) applyPlayback(ctx context.Context, roomId, senderId string, params room.UpdatePlayerStateParams) (ControlPlaybackResponse, error) {
	if err := s.roomRepo.UpdatePlayerState(ctx, &params); err != nil {
		return ControlPlaybackResponse{}, fmt.Errorf("failed to update player state: %w", err)
	}

	conns, err := s.getConns(ctx, roomId, senderId)
	if err != nil {
		return ControlPlaybackResponse{}, err
	}

	return ControlPlaybackResponse{
		Playback: SyncPlayback{
			Playing:         params.IsPlaying,
			CurrentTime:     params.CurrentTime,
			PlaybackRate:    params.PlaybackRate,
			ServerTimestamp: params.UpdatedAt,
		},
		Conns: conns,
	}, nil
}
