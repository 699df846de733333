package room

// Player is the authoritative playback tuple of a room. CurrentTime is in
// seconds, UpdatedAt in server epoch milliseconds.
type Player struct {
	IsPlaying    bool    `redis:"is_playing"`
	CurrentTime  float64 `redis:"current_time"`
	PlaybackRate float64 `redis:"playback_rate"`
	UpdatedAt    int64   `redis:"updated_at"`
}

type Member struct {
	Nickname string `redis:"nickname"`
	IsHost   bool   `redis:"is_host"`
}

// Media holds the opaque external references of a room. Empty means absent;
// the server stores and relays these strings without interpreting them.
type Media struct {
	VideoURL    string `redis:"video_url"`
	SubtitleURL string `redis:"subtitle_url"`
}

// Comment is a stored text annotation. Timestamp is the video position the
// comment is anchored to, in seconds.
type Comment struct {
	Timestamp float64 `redis:"timestamp"`
	Author    string  `redis:"author"`
	Text      string  `redis:"text"`
}
