package controller

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/service/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

// Output is the frame written to clients: {"type": ..., "payload": ...}.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type JoinRoomInput struct {
	RoomId    string `json:"roomId" validate:"required,max=128"`
	IsHost    bool   `json:"isHost"`
	Nickname  string `json:"nickname" validate:"required,max=64"`
	HostToken string `json:"hostToken"`
}

type roomStatePayload struct {
	room.RoomState
	HostToken string `json:"hostToken,omitempty"`
}

func (c *controller) handleJoinRoom(ctx context.Context, conn *wsrouter.Conn, input JoinRoomInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:    input.RoomId,
		ConnId:    c.getConnIdFromCtx(ctx),
		Nickname:  input.Nickname,
		IsHost:    input.IsHost,
		HostToken: input.HostToken,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	// the snapshot goes to the caller only, never broadcast
	if err := conn.WriteJSON(&Output{
		Type: "roomState",
		Payload: roomStatePayload{
			RoomState: joinRoomResp.RoomState,
			HostToken: joinRoomResp.HostToken,
		},
	}); err != nil {
		return fmt.Errorf("failed to write room state: %w", err)
	}

	return nil
}

type HostActionInput struct {
	RoomId       string  `json:"roomId" validate:"required"`
	Action       string  `json:"action" validate:"required,oneof=play pause rate"`
	CurrentTime  float64 `json:"currentTime" validate:"gte=0"`
	PlaybackRate float64 `json:"playbackRate" validate:"gt=0"`
}

func (c *controller) handleHostAction(ctx context.Context, conn *wsrouter.Conn, input HostActionInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	controlResp, err := c.roomService.ControlPlayback(ctx, &room.ControlPlaybackParams{
		Action:       input.Action,
		CurrentTime:  input.CurrentTime,
		PlaybackRate: input.PlaybackRate,
		SenderId:     c.getConnIdFromCtx(ctx),
		RoomId:       input.RoomId,
	})
	if err != nil {
		return fmt.Errorf("failed to control playback: %w", err)
	}

	c.broadcastSyncPlayback(ctx, controlResp.Conns, &controlResp.Playback)

	return nil
}

type TimeUpdateInput struct {
	RoomId       string  `json:"roomId" validate:"required"`
	Time         float64 `json:"time" validate:"gte=0"`
	Duration     float64 `json:"duration"`
	IsPlaying    bool    `json:"isPlaying"`
	PlaybackRate float64 `json:"playbackRate" validate:"gt=0"`
}

func (c *controller) handleTimeUpdate(ctx context.Context, conn *wsrouter.Conn, input TimeUpdateInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	syncResp, err := c.roomService.SyncProgress(ctx, &room.SyncProgressParams{
		CurrentTime:  input.Time,
		IsPlaying:    input.IsPlaying,
		PlaybackRate: input.PlaybackRate,
		SenderId:     c.getConnIdFromCtx(ctx),
		RoomId:       input.RoomId,
	})
	if err != nil {
		return fmt.Errorf("failed to sync progress: %w", err)
	}

	c.broadcastSyncPlayback(ctx, syncResp.Conns, &syncResp.Playback)

	return nil
}

type SeekInput struct {
	RoomId string  `json:"roomId" validate:"required"`
	Time   float64 `json:"time" validate:"gte=0"`
}

func (c *controller) handleSeek(ctx context.Context, conn *wsrouter.Conn, input SeekInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	seekResp, err := c.roomService.Seek(ctx, &room.SeekParams{
		CurrentTime: input.Time,
		SenderId:    c.getConnIdFromCtx(ctx),
		RoomId:      input.RoomId,
	})
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	c.broadcastSyncPlayback(ctx, seekResp.Conns, &seekResp.Playback)

	return nil
}

const (
	annotationKindComment = "comment"
	annotationKindDrawing = "drawing"
)

// AnnotationInput is the tagged annotation variant: kind selects between a
// comment and a whole-canvas drawing snapshot.
type AnnotationInput struct {
	Kind      string  `json:"kind" validate:"required,oneof=comment drawing"`
	Id        string  `json:"id" validate:"required,max=128"`
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
	Author    string  `json:"author" validate:"max=64"`
	Text      string  `json:"text"`
	Data      string  `json:"data"`
}

type AddAnnotationInput struct {
	RoomId     string          `json:"roomId" validate:"required"`
	Annotation AnnotationInput `json:"annotation"`
}

func (c *controller) handleAddAnnotation(ctx context.Context, conn *wsrouter.Conn, input AddAnnotationInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if input.Annotation.Kind == annotationKindDrawing {
		canvasResp, err := c.roomService.ReplaceCanvas(ctx, &room.ReplaceCanvasParams{
			Data:     input.Annotation.Data,
			SenderId: c.getConnIdFromCtx(ctx),
			RoomId:   input.RoomId,
		})
		if err != nil {
			return fmt.Errorf("failed to replace canvas: %w", err)
		}

		c.broadcastCanvasUpdate(ctx, canvasResp.Conns, canvasResp.CanvasJson)

		return nil
	}

	addCommentResp, err := c.roomService.AddComment(ctx, &room.AddCommentParams{
		Comment: room.Comment{
			Id:        input.Annotation.Id,
			Timestamp: input.Annotation.Timestamp,
			Author:    input.Annotation.Author,
			Text:      input.Annotation.Text,
		},
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   input.RoomId,
	})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	c.broadcast(ctx, addCommentResp.Conns, &Output{
		Type:    "add-annotation",
		Payload: addCommentResp.Comment,
	})

	return nil
}

type UpdateAnnotationInput struct {
	RoomId     string          `json:"roomId" validate:"required"`
	Annotation AnnotationInput `json:"annotation"`
}

func (c *controller) handleUpdateAnnotation(ctx context.Context, conn *wsrouter.Conn, input UpdateAnnotationInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if input.Annotation.Kind != annotationKindComment {
		return fmt.Errorf("only comments can be updated in place")
	}

	updateCommentResp, err := c.roomService.UpdateComment(ctx, &room.UpdateCommentParams{
		Comment: room.Comment{
			Id:        input.Annotation.Id,
			Timestamp: input.Annotation.Timestamp,
			Author:    input.Annotation.Author,
			Text:      input.Annotation.Text,
		},
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   input.RoomId,
	})
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	c.broadcast(ctx, updateCommentResp.Conns, &Output{
		Type:    "update-annotation",
		Payload: updateCommentResp.Comment,
	})

	return nil
}

type DeleteAnnotationInput struct {
	RoomId       string `json:"roomId" validate:"required"`
	AnnotationId string `json:"annotationId" validate:"required"`
}

func (c *controller) handleDeleteAnnotation(ctx context.Context, conn *wsrouter.Conn, input DeleteAnnotationInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	removeCommentResp, err := c.roomService.RemoveComment(ctx, &room.RemoveCommentParams{
		CommentId: input.AnnotationId,
		SenderId:  c.getConnIdFromCtx(ctx),
		RoomId:    input.RoomId,
	})
	if err != nil {
		return fmt.Errorf("failed to remove comment: %w", err)
	}

	c.broadcast(ctx, removeCommentResp.Conns, &Output{
		Type:    "delete-annotation",
		Payload: removeCommentResp.CommentId,
	})

	return nil
}

type ClearCanvasInput struct {
	RoomId string `json:"roomId" validate:"required"`
}

func (c *controller) handleClearCanvas(ctx context.Context, conn *wsrouter.Conn, input ClearCanvasInput) error {
	if err := c.validate.Validate(input); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	clearResp, err := c.roomService.ClearCanvas(ctx, &room.ClearCanvasParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   input.RoomId,
	})
	if err != nil {
		return fmt.Errorf("failed to clear canvas: %w", err)
	}

	c.broadcastCanvasUpdate(ctx, clearResp.Conns, clearResp.CanvasJson)

	return nil
}

func (c *controller) handlePing(ctx context.Context, conn *wsrouter.Conn, clientTime int64) error {
	if err := conn.WriteJSON(&Output{
		Type:    "pong",
		Payload: c.roomService.Echo(clientTime),
	}); err != nil {
		return fmt.Errorf("failed to write pong: %w", err)
	}

	return nil
}
