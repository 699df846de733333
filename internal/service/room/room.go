package room

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

// ensureRoom lazily creates the room's playback state: paused at position
// zero, rate 1, stamped with the creation time. Idempotent.
func (s *service) ensureRoom(ctx context.Context, roomId string) error {
	exists, err := s.roomRepo.IsPlayerExists(ctx, roomId)
	if err != nil {
		return fmt.Errorf("failed to check if player exists: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.roomRepo.SetPlayer(ctx, &room.SetPlayerParams{
		IsPlaying:    false,
		CurrentTime:  0,
		PlaybackRate: 1,
		UpdatedAt:    s.stamp(0),
		RoomId:       roomId,
	}); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

type JoinRoomParams struct {
	RoomId    string
	ConnId    string
	Nickname  string
	IsHost    bool
	HostToken string
}

type JoinRoomResponse struct {
	RoomState RoomState
	// HostToken is set when the join claimed host; it lets the same client
	// re-claim host on a later connection.
	HostToken string
}

// JoinRoom registers the connection as a member of the room, creating the
// room on first join. A host claim (explicit or via a valid host token for
// this room) displaces any prior host unconditionally; the prior host's
// membership record keeps its stale isHost flag. The returned snapshot goes
// to the caller only.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.ensureRoom(ctx, params.RoomId); err != nil {
		return JoinRoomResponse{}, err
	}

	claimsHost := params.IsHost
	if !claimsHost && params.HostToken != "" {
		tokenRoomId, err := s.parseHostToken(params.HostToken)
		if err != nil {
			s.logger.DebugContext(ctx, "rejected host token", "error", err)
		} else if tokenRoomId == params.RoomId {
			claimsHost = true
		}
	}

	if err := s.roomRepo.SetMember(ctx, &room.SetMemberParams{
		ConnId:   params.ConnId,
		Nickname: params.Nickname,
		IsHost:   claimsHost,
		RoomId:   params.RoomId,
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to set member: %w", err)
	}

	var hostToken string
	if claimsHost {
		if err := s.roomRepo.SetHost(ctx, params.RoomId, params.ConnId); err != nil {
			return JoinRoomResponse{}, fmt.Errorf("failed to set host: %w", err)
		}

		token, err := s.generateHostToken(params.RoomId)
		if err != nil {
			return JoinRoomResponse{}, fmt.Errorf("failed to generate host token: %w", err)
		}
		hostToken = token
	}

	roomState, err := s.getRoomState(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	return JoinRoomResponse{
		RoomState: roomState,
		HostToken: hostToken,
	}, nil
}

type DisconnectMemberParams struct {
	ConnId string
}

// HostStoppedBroadcast carries the paused state a host's departure forces
// on one room, addressed to its remaining members.
type HostStoppedBroadcast struct {
	RoomId   string
	Playback SyncPlayback
	Conns    []*wsrouter.Conn
}

type DisconnectMemberResponse struct {
	Broadcasts []HostStoppedBroadcast
}

// DisconnectMember removes the connection from every room it joined. Rooms
// it hosted lose their host and are force-paused at the current position;
// no replacement host is promoted.
func (s *service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) (DisconnectMemberResponse, error) {
	roomIds, err := s.roomRepo.GetConnRoomIds(ctx, params.ConnId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get conn room ids: %w", err)
	}

	var broadcasts []HostStoppedBroadcast
	for _, roomId := range roomIds {
		broadcast, err := s.leaveRoom(ctx, roomId, params.ConnId)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to leave room", "roomId", roomId, "error", err)
			continue
		}

		if broadcast != nil {
			broadcasts = append(broadcasts, *broadcast)
		}
	}

	if err := s.connRepo.RemoveByConnId(params.ConnId); err != nil {
		s.logger.DebugContext(ctx, "failed to remove conn", "error", err)
	}

	return DisconnectMemberResponse{Broadcasts: broadcasts}, nil
}

func (s *service) leaveRoom(ctx context.Context, roomId, connId string) (*HostStoppedBroadcast, error) {
	unlock := s.lockRoom(roomId)
	defer unlock()

	if err := s.roomRepo.RemoveMember(ctx, &room.RemoveMemberParams{
		ConnId: connId,
		RoomId: roomId,
	}); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	if err := s.checkIfHost(ctx, roomId, connId); err != nil {
		// a regular member left; nothing to broadcast
		return nil, nil
	}

	if err := s.roomRepo.RemoveHost(ctx, roomId); err != nil {
		return nil, fmt.Errorf("failed to remove host: %w", err)
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	updatedAt := s.stamp(player.UpdatedAt)
	if err := s.roomRepo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		IsPlaying:    false,
		CurrentTime:  player.CurrentTime,
		PlaybackRate: player.PlaybackRate,
		UpdatedAt:    updatedAt,
		RoomId:       roomId,
	}); err != nil {
		return nil, fmt.Errorf("failed to update player state: %w", err)
	}

	conns, err := s.getConns(ctx, roomId)
	if err != nil {
		return nil, err
	}

	return &HostStoppedBroadcast{
		RoomId: roomId,
		Playback: SyncPlayback{
			Playing:         false,
			CurrentTime:     player.CurrentTime,
			PlaybackRate:    player.PlaybackRate,
			ServerTimestamp: updatedAt,
		},
		Conns: conns,
	}, nil
}

type SetMediaRefsParams struct {
	RoomId      string
	VideoURL    string
	SubtitleURL string
}

type SetMediaRefsResponse struct {
	VideoURL    *string `json:"videoUrl"`
	SubtitleURL *string `json:"subtitleUrl"`
}

// SetMediaRefs associates opaque media references with the room, creating
// it on first association. The refs are stored and relayed, never
// interpreted.
func (s *service) SetMediaRefs(ctx context.Context, params *SetMediaRefsParams) (SetMediaRefsResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.ensureRoom(ctx, params.RoomId); err != nil {
		return SetMediaRefsResponse{}, err
	}

	if err := s.roomRepo.SetMedia(ctx, &room.SetMediaParams{
		VideoURL:    params.VideoURL,
		SubtitleURL: params.SubtitleURL,
		RoomId:      params.RoomId,
	}); err != nil {
		return SetMediaRefsResponse{}, fmt.Errorf("failed to set media: %w", err)
	}

	media, err := s.roomRepo.GetMedia(ctx, params.RoomId)
	if err != nil {
		return SetMediaRefsResponse{}, fmt.Errorf("failed to get media: %w", err)
	}

	return SetMediaRefsResponse{
		VideoURL:    optionalRef(media.VideoURL),
		SubtitleURL: optionalRef(media.SubtitleURL),
	}, nil
}
