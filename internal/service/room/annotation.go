package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

type AddCommentParams struct {
	Comment  Comment
	SenderId string
	RoomId   string
}

type CommentResponse struct {
	Comment Comment
	// Conns are all room members, the sender included so it can confirm
	// the id it supplied.
	Conns []*wsrouter.Conn
}

// AddComment appends a comment to the room's annotation collection. Any
// member may comment; order is insertion order.
func (s *service) AddComment(ctx context.Context, params *AddCommentParams) (CommentResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.checkIfMember(ctx, params.RoomId, params.SenderId); err != nil {
		return CommentResponse{}, err
	}

	if err := s.roomRepo.SetComment(ctx, &room.SetCommentParams{
		CommentId: params.Comment.Id,
		Timestamp: params.Comment.Timestamp,
		Author:    params.Comment.Author,
		Text:      params.Comment.Text,
		RoomId:    params.RoomId,
	}); err != nil {
		return CommentResponse{}, fmt.Errorf("failed to set comment: %w", err)
	}

	conns, err := s.getConns(ctx, params.RoomId)
	if err != nil {
		return CommentResponse{}, err
	}

	return CommentResponse{Comment: params.Comment, Conns: conns}, nil
}

type UpdateCommentParams struct {
	Comment  Comment
	SenderId string
	RoomId   string
}

// UpdateComment replaces a comment in place, preserving its position in the
// collection order. A missing id is a no-op: no mutation, no broadcast.
func (s *service) UpdateComment(ctx context.Context, params *UpdateCommentParams) (CommentResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.checkIfMember(ctx, params.RoomId, params.SenderId); err != nil {
		return CommentResponse{}, err
	}

	if err := s.roomRepo.UpdateComment(ctx, &room.UpdateCommentParams{
		CommentId: params.Comment.Id,
		Timestamp: params.Comment.Timestamp,
		Author:    params.Comment.Author,
		Text:      params.Comment.Text,
		RoomId:    params.RoomId,
	}); err != nil {
		if errors.Is(err, room.ErrCommentNotFound) {
			return CommentResponse{}, ErrCommentNotFound
		}

		return CommentResponse{}, fmt.Errorf("failed to update comment: %w", err)
	}

	conns, err := s.getConns(ctx, params.RoomId)
	if err != nil {
		return CommentResponse{}, err
	}

	return CommentResponse{Comment: params.Comment, Conns: conns}, nil
}

type RemoveCommentParams struct {
	CommentId string
	SenderId  string
	RoomId    string
}

type RemoveCommentResponse struct {
	CommentId string
	Conns     []*wsrouter.Conn
}

// RemoveComment deletes at most one comment by id. A missing id is a no-op.
func (s *service) RemoveComment(ctx context.Context, params *RemoveCommentParams) (RemoveCommentResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.checkIfMember(ctx, params.RoomId, params.SenderId); err != nil {
		return RemoveCommentResponse{}, err
	}

	if err := s.roomRepo.RemoveComment(ctx, &room.RemoveCommentParams{
		CommentId: params.CommentId,
		RoomId:    params.RoomId,
	}); err != nil {
		if errors.Is(err, room.ErrCommentNotFound) {
			return RemoveCommentResponse{}, ErrCommentNotFound
		}

		return RemoveCommentResponse{}, fmt.Errorf("failed to remove comment: %w", err)
	}

	conns, err := s.getConns(ctx, params.RoomId)
	if err != nil {
		return RemoveCommentResponse{}, err
	}

	return RemoveCommentResponse{CommentId: params.CommentId, Conns: conns}, nil
}
