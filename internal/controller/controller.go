package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/watchalong/server/internal/service/room"
	"github.com/watchalong/server/pkg/validator"
	"github.com/watchalong/server/pkg/wsrouter"
)

type iRoomService interface {
	Connect(ctx context.Context, conn *wsrouter.Conn, connId string) error
	DisconnectMember(context.Context, *room.DisconnectMemberParams) (room.DisconnectMemberResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	ControlPlayback(context.Context, *room.ControlPlaybackParams) (room.ControlPlaybackResponse, error)
	SyncProgress(context.Context, *room.SyncProgressParams) (room.ControlPlaybackResponse, error)
	Seek(context.Context, *room.SeekParams) (room.SeekResponse, error)
	AddComment(context.Context, *room.AddCommentParams) (room.CommentResponse, error)
	UpdateComment(context.Context, *room.UpdateCommentParams) (room.CommentResponse, error)
	RemoveComment(context.Context, *room.RemoveCommentParams) (room.RemoveCommentResponse, error)
	ReplaceCanvas(context.Context, *room.ReplaceCanvasParams) (room.CanvasResponse, error)
	ClearCanvas(context.Context, *room.ClearCanvasParams) (room.CanvasResponse, error)
	SetMediaRefs(context.Context, *room.SetMediaRefsParams) (room.SetMediaRefsResponse, error)
	Echo(clientTime int64) room.EchoResponse
}

type controller struct {
	roomService iRoomService
	logger      *slog.Logger
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	c := controller{
		roomService: roomService,
		logger:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.New(),
	}
	c.wsmux = c.getWSRouter()

	return &c
}
