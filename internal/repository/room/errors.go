package room

import "errors"

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrHostNotFound    = errors.New("host not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrCanvasNotFound  = errors.New("canvas not found")
)
