package leaguectl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
)

// Request is one client invocation: a command with key=value arguments, or a
// lookup of an existing interaction when Interaction is set.
type Request struct {
	Command     string
	Pairs       []string
	Interaction string
}

// Run executes req against the service and renders the result to out. A
// failed command is rendered before its error is returned.
func Run(ctx context.Context, cfg Config, req Request, out io.Writer) error {
	client := NewClient(cfg)
	log := logger.Get().Named("leaguectl")

	var (
		it  gateway.Interaction
		err error
	)
	switch {
	case req.Interaction != "":
		it, err = client.Interaction(ctx, req.Interaction)
	case req.Command == "":
		return fmt.Errorf("%w: no command given", ErrBadArgument)
	default:
		args, perr := ParseArgs(req.Pairs)
		if perr != nil {
			return perr
		}
		log.Debug(ctx, "running command", logger.String("command", req.Command), logger.String("user", cfg.User))
		it, err = client.Command(ctx, req.Command, args)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if it.ID != "" {
		if rerr := render(cfg, out, it); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		return err
	}
	if failed(it) {
		return fmt.Errorf("%s failed", it.Command)
	}
	return nil
}

func render(cfg Config, out io.Writer, it gateway.Interaction) error {
	if cfg.JSON {
		return RenderJSON(out, it)
	}
	return NewRenderer(out).Render(it)
}

func failed(it gateway.Interaction) bool {
	for _, m := range it.Messages {
		if m.Kind != "" {
			return true
		}
	}
	return false
}

// ShowHelp prints usage information for the client.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `League Command Client
=====================

Runs one league command against the bot's HTTP API and renders the replies.
Deferred commands are polled until their follow-up arrives.

Usage:
  leaguectl [options] <command> [key=value ...]
  leaguectl [options] -interaction <id>

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -user string
        Acting user id (default $LEAGUE_USER)
  -roles string
        Comma separated roles of the acting user, e.g. Admin
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        How long to wait for a deferred follow-up (default 2m)
  -interaction string
        Show an existing interaction instead of running a command
  -json
        Print the raw interaction as JSON
  -verbose
        Enable debug logging on stderr
  -help
        Show this help message

Commands:
  register-team            name=<team>
  show-team
  show-roster              [team=<team>]
  sign-free-agent          player=<name> amount=<M> years=<n> justification=<text>
  cut-player               player=<name> justification=<text>
  propose-trade            counterparty=<team> outgoing=<a,b> incoming=<c,d>
                           [outgoing_salary=<M>] [incoming_salary=<M>] [justification=<text>]
  accept-trade
  resolve-proposal         proposal=<id> verdict=accept|reject token=<token>
  list-transactions        [status=proposed|completed|rejected]
  list-available-teams
  resync-league-data
  provision-team-channels

Examples:
  leaguectl -user 100 register-team name=bucks
  leaguectl -user 100 propose-trade counterparty=la outgoing="Bobby Portis" incoming="Austin Reaves"
  leaguectl -user 1 -roles Admin resolve-proposal proposal=7f3c verdict=accept token=ab12
`)
}
