// Package room implements the room synchronization engine: one
// authoritative playback state per room, host arbitration, the
// annotation/canvas store, and the clock echo primitive.
package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrRoomNotFound     = errors.New("room not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrCommentNotFound  = errors.New("comment not found")
)

type iRoomRepo interface {
	// player
	SetPlayer(context.Context, *room.SetPlayerParams) error
	GetPlayer(context.Context, string) (room.Player, error)
	IsPlayerExists(context.Context, string) (bool, error)
	UpdatePlayerState(context.Context, *room.UpdatePlayerStateParams) error
	UpdatePlayerPosition(context.Context, *room.UpdatePlayerPositionParams) error
	// media
	SetMedia(context.Context, *room.SetMediaParams) error
	GetMedia(context.Context, string) (room.Media, error)
	// host
	SetHost(ctx context.Context, roomId, connId string) error
	GetHostId(context.Context, string) (string, error)
	RemoveHost(context.Context, string) error
	// member
	SetMember(context.Context, *room.SetMemberParams) error
	RemoveMember(context.Context, *room.RemoveMemberParams) error
	GetMember(context.Context, *room.GetMemberParams) (room.Member, error)
	GetMemberIds(context.Context, string) ([]string, error)
	GetConnRoomIds(context.Context, string) ([]string, error)
	// comments
	SetComment(context.Context, *room.SetCommentParams) error
	UpdateComment(context.Context, *room.UpdateCommentParams) error
	RemoveComment(context.Context, *room.RemoveCommentParams) error
	GetCommentIds(context.Context, string) ([]string, error)
	GetComment(context.Context, *room.GetCommentParams) (room.Comment, error)
	// canvas
	SetCanvas(context.Context, *room.SetCanvasParams) error
	GetCanvas(context.Context, string) (string, error)
	RemoveCanvas(context.Context, string) error
}

type iConnRepo interface {
	Add(conn *wsrouter.Conn, connId string) error
	RemoveByConnId(connId string) error
	GetConn(connId string) (*wsrouter.Conn, error)
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	logger   *slog.Logger
	secret   string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, secret string, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		logger:   logger,
		secret:   secret,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockRoom serializes mutations of one room across connections so that each
// action runs validate->mutate to completion before the next. Rooms share
// nothing, so distinct rooms never contend.
func (s *service) lockRoom(roomId string) func() {
	s.mu.Lock()
	l, ok := s.locks[roomId]
	if !ok {
		l = &sync.Mutex{}
		s.locks[roomId] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Connect registers a freshly upgraded websocket connection under its id.
func (s *service) Connect(ctx context.Context, conn *wsrouter.Conn, connId string) error {
	return s.connRepo.Add(conn, connId)
}

// stamp returns the server timestamp for a playback transition, clamped so
// that a room's timestamps never decrease.
func (s *service) stamp(previous int64) int64 {
	now := time.Now().UnixMilli()
	if now < previous {
		return previous
	}

	return now
}
