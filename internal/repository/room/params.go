package room

type SetPlayerParams struct {
	IsPlaying    bool
	CurrentTime  float64
	PlaybackRate float64
	UpdatedAt    int64
	RoomId       string
}

type UpdatePlayerStateParams struct {
	IsPlaying    bool
	CurrentTime  float64
	PlaybackRate float64
	UpdatedAt    int64
	RoomId       string
}

type UpdatePlayerPositionParams struct {
	CurrentTime float64
	UpdatedAt   int64
	RoomId      string
}

type SetMediaParams struct {
	VideoURL    string
	SubtitleURL string
	RoomId      string
}

type SetMemberParams struct {
	ConnId   string
	Nickname string
	IsHost   bool
	RoomId   string
}

type RemoveMemberParams struct {
	ConnId string
	RoomId string
}

type GetMemberParams struct {
	ConnId string
	RoomId string
}

type SetCommentParams struct {
	CommentId string
	Timestamp float64
	Author    string
	Text      string
	RoomId    string
}

type UpdateCommentParams struct {
	CommentId string
	Timestamp float64
	Author    string
	Text      string
	RoomId    string
}

type RemoveCommentParams struct {
	CommentId string
	RoomId    string
}

type GetCommentParams struct {
	CommentId string
	RoomId    string
}

type SetCanvasParams struct {
	Data   string
	RoomId string
}
