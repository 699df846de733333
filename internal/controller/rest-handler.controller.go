package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/watchalong/server/internal/service/room"
)

type SetRoomMediaInput struct {
	VideoURL    string `json:"videoUrl" validate:"max=2048"`
	SubtitleURL string `json:"subtitleUrl" validate:"max=2048"`
}

func (c *controller) setRoomMedia(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		http.Error(w, "room id is required", http.StatusBadRequest)
		return
	}

	var input SetRoomMediaInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.validate.Validate(input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if input.VideoURL == "" && input.SubtitleURL == "" {
		http.Error(w, "at least one of videoUrl or subtitleUrl is required", http.StatusBadRequest)
		return
	}

	mediaResp, err := c.roomService.SetMediaRefs(r.Context(), &room.SetMediaRefsParams{
		RoomId:      roomId,
		VideoURL:    input.VideoURL,
		SubtitleURL: input.SubtitleURL,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to set room media", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mediaResp); err != nil {
		c.logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}
