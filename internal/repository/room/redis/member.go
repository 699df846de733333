package redis

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/repository/room"
)

func (r repo) getMemberKey(roomId, connId string) string {
	return "room:" + roomId + ":member:" + connId
}

func (r repo) getMemberListKey(roomId string) string {
	return "room:" + roomId + ":memberlist"
}

func (r repo) getConnRoomsKey(connId string) string {
	return "conn:" + connId + ":rooms"
}

func (r repo) SetMember(ctx context.Context, params *room.SetMemberParams) error {
	r.logger.DebugContext(ctx, "repo: set member", "params", params)

	member := room.Member{
		Nickname: params.Nickname,
		IsHost:   params.IsHost,
	}

	memberKey := r.getMemberKey(params.RoomId, params.ConnId)
	memberListKey := r.getMemberListKey(params.RoomId)
	connRoomsKey := r.getConnRoomsKey(params.ConnId)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, memberKey, member)
	r.appendToList(ctx, pipe, memberListKey, params.ConnId)
	pipe.SAdd(ctx, connRoomsKey, params.RoomId)
	pipe.Expire(ctx, memberKey, r.roomTTL)
	pipe.Expire(ctx, memberListKey, r.roomTTL)
	pipe.Expire(ctx, connRoomsKey, r.roomTTL)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set member: %w", err)
	}

	return nil
}

func (r repo) RemoveMember(ctx context.Context, params *room.RemoveMemberParams) error {
	r.logger.DebugContext(ctx, "repo: remove member", "params", params)

	res, err := r.rc.ZRem(ctx, r.getMemberListKey(params.RoomId), params.ConnId).Result()
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if res == 0 {
		return room.ErrMemberNotFound
	}

	pipe := r.rc.TxPipeline()
	pipe.Del(ctx, r.getMemberKey(params.RoomId, params.ConnId))
	pipe.SRem(ctx, r.getConnRoomsKey(params.ConnId), params.RoomId)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

func (r repo) GetMember(ctx context.Context, params *room.GetMemberParams) (room.Member, error) {
	memberKey := r.getMemberKey(params.RoomId, params.ConnId)

	res, err := r.rc.Exists(ctx, memberKey).Result()
	if err != nil {
		return room.Member{}, fmt.Errorf("failed to get member: %w", err)
	}
	if res == 0 {
		return room.Member{}, room.ErrMemberNotFound
	}

	var member room.Member
	if err := r.rc.HGetAll(ctx, memberKey).Scan(&member); err != nil {
		return room.Member{}, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// GetMemberIds returns the room's member connection ids in join order.
func (r repo) GetMemberIds(ctx context.Context, roomId string) ([]string, error) {
	memberIds, err := r.rc.ZRange(ctx, r.getMemberListKey(roomId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	return memberIds, nil
}

// GetConnRoomIds returns the ids of every room the connection has joined.
func (r repo) GetConnRoomIds(ctx context.Context, connId string) ([]string, error) {
	roomIds, err := r.rc.SMembers(ctx, r.getConnRoomsKey(connId)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get conn room ids: %w", err)
	}

	return roomIds, nil
}
