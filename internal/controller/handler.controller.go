package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/watchalong/server/internal/service/room"
	"github.com/watchalong/server/pkg/ctxlogger"
	"github.com/watchalong/server/pkg/wsrouter"
)

func (c *controller) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	conn := wsrouter.NewConn(ws)
	defer conn.Close()

	connId := uuid.NewString()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("conn_id", connId))
	ctx = context.WithValue(ctx, connIdCtxKey, connId)

	if err := c.roomService.Connect(ctx, conn, connId); err != nil {
		c.logger.ErrorContext(ctx, "failed to register connection", "error", err)
		return
	}
	defer c.disconnect(ctx, connId)

	c.logger.InfoContext(ctx, "websocket connection established")

	c.wsmux.ServeConn(ctx, conn)

	c.logger.InfoContext(ctx, "websocket connection closed")
}

// disconnect tears down the connection's memberships and pauses any room it
// was hosting for the members left behind.
func (c *controller) disconnect(ctx context.Context, connId string) {
	disconnectResp, err := c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
		ConnId: connId,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to disconnect member", "error", err)
		return
	}

	for _, hostStopped := range disconnectResp.Broadcasts {
		c.broadcastSyncPlayback(ctx, hostStopped.Conns, &hostStopped.Playback)
	}
}
