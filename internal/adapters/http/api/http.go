// Package api is the HTTP rendition of the league command surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/notify"
	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
)

// Identity headers set by the chat gateway in front of the API.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRoles = "X-User-Roles"
)

// Dispatcher runs commands. *gateway.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd gateway.Command, r gateway.Responder) error
}

// Interactions records replies per command. *gateway.Inbox implements it.
type Interactions interface {
	Open(cmd *gateway.Command) gateway.Responder
	Get(id string) (gateway.Interaction, error)
}

// Channels exposes posted messages. *notify.Feed implements it.
type Channels interface {
	Messages(channel string) []notify.Message
}

// Server wires HTTP routes for the league API.
type Server struct {
	healthHandler   *HealthHandler
	commandsHandler *CommandsHandler
	channelsHandler *ChannelsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(d Dispatcher, inbox Interactions, channels Channels) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		commandsHandler: NewCommandsHandler(d, inbox),
		channelsHandler: NewChannelsHandler(channels),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("POST /commands/{name}", MetricsMiddleware(s.commandsHandler.HandleCommand, "commands"))
	mux.HandleFunc("GET /interactions/{id}", MetricsMiddleware(s.commandsHandler.HandleInteraction, "interactions"))
	mux.HandleFunc("POST /proposals/{id}/{verdict}", MetricsMiddleware(s.commandsHandler.HandleProposalAction, "proposals"))
	mux.HandleFunc("GET /channels/{name}", MetricsMiddleware(s.channelsHandler.HandleChannel, "channels"))
}

// actorFrom reads the requester identity headers.
func actorFrom(r *http.Request) (service.Actor, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return service.Actor{}, false
	}
	var roles []string
	for _, role := range strings.Split(r.Header.Get(HeaderUserRoles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return service.Actor{ID: id, Roles: roles}, true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
