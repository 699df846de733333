package redis

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
)

func (r repo) getCommentKey(roomId, commentId string) string {
	return "room:" + roomId + ":annotation:" + commentId
}

func (r repo) getCommentListKey(roomId string) string {
	return "room:" + roomId + ":annotationlist"
}

func (r repo) SetComment(ctx context.Context, params *room.SetCommentParams) error {
	r.logger.DebugContext(ctx, "repo: set comment", "params", params)

	comment := room.Comment{
		Timestamp: params.Timestamp,
		Author:    params.Author,
		Text:      params.Text,
	}

	commentKey := r.getCommentKey(params.RoomId, params.CommentId)
	commentListKey := r.getCommentListKey(params.RoomId)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, commentKey, comment)
	r.appendToList(ctx, pipe, commentListKey, params.CommentId)
	pipe.Expire(ctx, commentKey, r.roomTTL)
	pipe.Expire(ctx, commentListKey, r.roomTTL)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set comment: %w", err)
	}

	return nil
}

// UpdateComment overwrites an existing comment in place; the comment keeps
// its slot in the insertion order.
func (r repo) UpdateComment(ctx context.Context, params *room.UpdateCommentParams) error {
	r.logger.DebugContext(ctx, "repo: update comment", "params", params)

	commentKey := r.getCommentKey(params.RoomId, params.CommentId)

	res, err := r.rc.Exists(ctx, commentKey).Result()
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if res == 0 {
		return room.ErrCommentNotFound
	}

	comment := room.Comment{
		Timestamp: params.Timestamp,
		Author:    params.Author,
		Text:      params.Text,
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, commentKey, comment)
	pipe.Expire(ctx, commentKey, r.roomTTL)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

func (r repo) RemoveComment(ctx context.Context, params *room.RemoveCommentParams) error {
	r.logger.DebugContext(ctx, "repo: remove comment", "params", params)

	res, err := r.rc.ZRem(ctx, r.getCommentListKey(params.RoomId), params.CommentId).Result()
	if err != nil {
		return fmt.Errorf("failed to remove comment: %w", err)
	}
	if res == 0 {
		return room.ErrCommentNotFound
	}

	if err := r.rc.Del(ctx, r.getCommentKey(params.RoomId, params.CommentId)).Err(); err != nil {
		return fmt.Errorf("failed to remove comment: %w", err)
	}

	return nil
}

// GetCommentIds returns the room's comment ids in insertion order.
func (r repo) GetCommentIds(ctx context.Context, roomId string) ([]string, error) {
	commentIds, err := r.rc.ZRange(ctx, r.getCommentListKey(roomId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment ids: %w", err)
	}

	return commentIds, nil
}

func (r repo) GetComment(ctx context.Context, params *room.GetCommentParams) (room.Comment, error) {
	commentKey := r.getCommentKey(params.RoomId, params.CommentId)

	res, err := r.rc.Exists(ctx, commentKey).Result()
	if err != nil {
		return room.Comment{}, fmt.Errorf("failed to get comment: %w", err)
	}
	if res == 0 {
		return room.Comment{}, room.ErrCommentNotFound
	}

	var comment room.Comment
	if err := r.rc.HGetAll(ctx, commentKey).Scan(&comment); err != nil {
		return room.Comment{}, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}
