package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
)

// CommandsHandler runs commands and serves their interactions.
type CommandsHandler struct {
	dispatcher Dispatcher
	inbox      Interactions
}

// NewCommandsHandler creates a new commands handler.
func NewCommandsHandler(d Dispatcher, inbox Interactions) *CommandsHandler {
	return &CommandsHandler{dispatcher: d, inbox: inbox}
}

// HandleCommand handles POST /commands/{name}. The body holds the command
// arguments; an empty body means no arguments.
func (h *CommandsHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_command"
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}

	var args gateway.Args
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	h.run(w, r, op, gateway.Command{Name: r.PathValue("name"), Actor: actor, Args: args})
}

// HandleProposalAction handles POST /proposals/{id}/{verdict}?token=..., the
// Accept/Reject buttons of an approval message.
func (h *CommandsHandler) HandleProposalAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_proposal_action"
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}
	h.run(w, r, op, gateway.Command{
		Name:  gateway.CmdResolveProposal,
		Actor: actor,
		Args: gateway.Args{
			Proposal: r.PathValue("id"),
			Verdict:  r.PathValue("verdict"),
			Token:    r.URL.Query().Get("token"),
		},
	})
}

// HandleInteraction handles GET /interactions/{id}. Only the requester may
// read an interaction; anyone else gets the same 404 as for a missing one.
func (h *CommandsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_interaction"
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}
	it, err := h.inbox.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	if it.Requester != actor.ID {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// run dispatches cmd and answers with its interaction: 202 while a follow-up
// is pending, otherwise the status of the first failed reply or 200.
func (h *CommandsHandler) run(w http.ResponseWriter, r *http.Request, op string, cmd gateway.Command) {
	responder := h.inbox.Open(&cmd)
	err := h.dispatcher.Dispatch(r.Context(), cmd, responder)
	switch {
	case errors.Is(err, gateway.ErrUnknownCommand):
		writeError(w, http.StatusNotFound, "unknown_command", WrapKind(op, ErrNotFound, err))
		return
	case errors.Is(err, gateway.ErrBusy):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	it, err := h.inbox.Get(cmd.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, interactionStatus(it), it)
}

func interactionStatus(it gateway.Interaction) int {
	if !it.Done {
		return http.StatusAccepted
	}
	for _, m := range it.Messages {
		if m.Kind != service.KindNone {
			return statusFor(m.Kind)
		}
	}
	return http.StatusOK
}
