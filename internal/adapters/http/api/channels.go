package api

import (
	"net/http"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/notify"
)

// ChannelsHandler serves the messages posted to the approval and public channels.
type ChannelsHandler struct {
	channels Channels
}

// NewChannelsHandler creates a new channels handler.
func NewChannelsHandler(channels Channels) *ChannelsHandler {
	return &ChannelsHandler{channels: channels}
}

// HandleChannel handles GET /channels/{name}, oldest message first.
func (h *ChannelsHandler) HandleChannel(w http.ResponseWriter, r *http.Request) {
	msgs := h.channels.Messages(r.PathValue("name"))
	if msgs == nil {
		msgs = []notify.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
