package controller

import (
	"context"
	"log/slog"

	"github.com/watchalong/server/internal/service/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

func (c *controller) broadcast(ctx context.Context, conns []*wsrouter.Conn, out *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(out); err != nil {
			c.logger.DebugContext(ctx, "failed to write message to conn",
				slog.String("message_type", out.Type),
				slog.Any("error", err),
			)
		}
	}
}

func (c *controller) broadcastSyncPlayback(ctx context.Context, conns []*wsrouter.Conn, playback *room.SyncPlayback) {
	c.broadcast(ctx, conns, &Output{
		Type:    "sync-playback",
		Payload: playback,
	})
}

type canvasUpdatePayload struct {
	CanvasJson *string `json:"canvasJson"`
}

func (c *controller) broadcastCanvasUpdate(ctx context.Context, conns []*wsrouter.Conn, canvasJson *string) {
	c.broadcast(ctx, conns, &Output{
		Type:    "canvas-update",
		Payload: canvasUpdatePayload{CanvasJson: canvasJson},
	})
}
