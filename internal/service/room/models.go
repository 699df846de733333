package room

// PlaybackState is the authoritative playback tuple as relayed to clients.
type PlaybackState struct {
	Playing      bool    `json:"playing"`
	CurrentTime  float64 `json:"currentTime"`
	PlaybackRate float64 `json:"playbackRate"`
	UpdatedAt    int64   `json:"lastUpdateTimestamp"`
}

// SyncPlayback is the sync-playback broadcast payload.
type SyncPlayback struct {
	Playing         bool    `json:"playing"`
	CurrentTime     float64 `json:"currentTime"`
	PlaybackRate    float64 `json:"playbackRate"`
	ServerTimestamp int64   `json:"serverTimestamp"`
}

// Comment is a text annotation anchored to a video position.
type Comment struct {
	Id        string  `json:"id"`
	Timestamp float64 `json:"timestamp"`
	Author    string  `json:"author,omitempty"`
	Text      string  `json:"text"`
}

// RoomState is the full snapshot returned to a joining member.
type RoomState struct {
	VideoURL      *string       `json:"videoUrl"`
	SubtitleURL   *string       `json:"subtitleUrl"`
	PlaybackState PlaybackState `json:"playbackState"`
	Annotations   []Comment     `json:"annotations"`
	CanvasJson    *string       `json:"canvasJson"`
}

// EchoResponse is the pong payload of the clock sync primitive. Both times
// are epoch milliseconds; ClientTime is echoed back verbatim.
type EchoResponse struct {
	ServerTime int64 `json:"serverTime"`
	ClientTime int64 `json:"clientTime"`
}
