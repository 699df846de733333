package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

// checkIfHost verifies that connId is the room's current host. A room
// without a host fails the check like any other non-host sender.
func (s *service) checkIfHost(ctx context.Context, roomId, connId string) error {
	hostId, err := s.roomRepo.GetHostId(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrHostNotFound) {
			return ErrPermissionDenied
		}

		return fmt.Errorf("failed to get host id: %w", err)
	}

	if hostId != connId {
		return ErrPermissionDenied
	}

	return nil
}

func (s *service) checkIfMember(ctx context.Context, roomId, connId string) error {
	if _, err := s.roomRepo.GetMember(ctx, &room.GetMemberParams{
		ConnId: connId,
		RoomId: roomId,
	}); err != nil {
		if errors.Is(err, room.ErrMemberNotFound) {
			return ErrMemberNotFound
		}

		return fmt.Errorf("failed to get member: %w", err)
	}

	return nil
}

// getConns returns the live connections of every room member except those
// listed in exclude. Members whose connection is already gone are skipped;
// the next heartbeat will cover them if they come back.
func (s *service) getConns(ctx context.Context, roomId string, exclude ...string) ([]*wsrouter.Conn, error) {
	memberIds, err := s.roomRepo.GetMemberIds(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	conns := make([]*wsrouter.Conn, 0, len(memberIds))
next:
	for _, memberId := range memberIds {
		for _, excluded := range exclude {
			if memberId == excluded {
				continue next
			}
		}

		conn, err := s.connRepo.GetConn(memberId)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping member without live conn", "connId", memberId)
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}

// getRoomState assembles the full snapshot handed to a joining member.
func (s *service) getRoomState(ctx context.Context, roomId string) (RoomState, error) {
	player, err := s.roomRepo.GetPlayer(ctx, roomId)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get player: %w", err)
	}

	media, err := s.roomRepo.GetMedia(ctx, roomId)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get media: %w", err)
	}

	commentIds, err := s.roomRepo.GetCommentIds(ctx, roomId)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get comment ids: %w", err)
	}

	annotations := make([]Comment, 0, len(commentIds))
	for _, commentId := range commentIds {
		comment, err := s.roomRepo.GetComment(ctx, &room.GetCommentParams{
			CommentId: commentId,
			RoomId:    roomId,
		})
		if err != nil {
			return RoomState{}, fmt.Errorf("failed to get comment: %w", err)
		}

		annotations = append(annotations, Comment{
			Id:        commentId,
			Timestamp: comment.Timestamp,
			Author:    comment.Author,
			Text:      comment.Text,
		})
	}

	var canvasJson *string
	canvas, err := s.roomRepo.GetCanvas(ctx, roomId)
	switch {
	case err == nil:
		canvasJson = &canvas
	case errors.Is(err, room.ErrCanvasNotFound):
		// absent canvas renders as null
	default:
		return RoomState{}, fmt.Errorf("failed to get canvas: %w", err)
	}

	return RoomState{
		VideoURL:    optionalRef(media.VideoURL),
		SubtitleURL: optionalRef(media.SubtitleURL),
		PlaybackState: PlaybackState{
			Playing:      player.IsPlaying,
			CurrentTime:  player.CurrentTime,
			PlaybackRate: player.PlaybackRate,
			UpdatedAt:    player.UpdatedAt,
		},
		Annotations: annotations,
		CanvasJson:  canvasJson,
	}, nil
}

func optionalRef(ref string) *string {
	if ref == "" {
		return nil
	}

	return &ref
}
