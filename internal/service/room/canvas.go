package room

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/pkg/wsrouter"
)

type ReplaceCanvasParams struct {
	Data     string
	SenderId string
	RoomId   string
}

type CanvasResponse struct {
	// CanvasJson is nil after a clear.
	CanvasJson *string
	Conns      []*wsrouter.Conn
}

// ReplaceCanvas swaps the room's drawing snapshot wholesale. Host-only;
// snapshots are never merged or diffed, so observers always see a complete
// drawing state.
func (s *service) ReplaceCanvas(ctx context.Context, params *ReplaceCanvasParams) (CanvasResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.checkIfHost(ctx, params.RoomId, params.SenderId); err != nil {
		return CanvasResponse{}, err
	}

	if err := s.roomRepo.SetCanvas(ctx, &room.SetCanvasParams{
		Data:   params.Data,
		RoomId: params.RoomId,
	}); err != nil {
		return CanvasResponse{}, fmt.Errorf("failed to set canvas: %w", err)
	}

	conns, err := s.getConns(ctx, params.RoomId)
	if err != nil {
		return CanvasResponse{}, err
	}

	data := params.Data

	return CanvasResponse{CanvasJson: &data, Conns: conns}, nil
}

type ClearCanvasParams struct {
	SenderId string
	RoomId   string
}

// ClearCanvas removes the room's drawing snapshot. Host-only.
func (s *service) ClearCanvas(ctx context.Context, params *ClearCanvasParams) (CanvasResponse, error) {
	unlock := s.lockRoom(params.RoomId)
	defer unlock()

	if err := s.checkIfHost(ctx, params.RoomId, params.SenderId); err != nil {
		return CanvasResponse{}, err
	}

	if err := s.roomRepo.RemoveCanvas(ctx, params.RoomId); err != nil {
		return CanvasResponse{}, fmt.Errorf("failed to remove canvas: %w", err)
	}

	conns, err := s.getConns(ctx, params.RoomId)
	if err != nil {
		return CanvasResponse{}, err
	}

	return CanvasResponse{CanvasJson: nil, Conns: conns}, nil
}
