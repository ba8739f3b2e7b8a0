// Package gateway is the command shell in front of the league service. It
// turns typed commands into service calls and answers through a Responder:
// one immediate reply, or an acknowledgment followed by a deferred follow-up
// for commands that reach the roster dataset or the channel provisioner.
package gateway

import (
	"context"

	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/shopspring/decimal"
)

// Command names.
const (
	CmdRegisterTeam          = "register-team"
	CmdShowTeam              = "show-team"
	CmdShowRoster            = "show-roster"
	CmdSignFreeAgent         = "sign-free-agent"
	CmdCutPlayer             = "cut-player"
	CmdProposeTrade          = "propose-trade"
	CmdAcceptTrade           = "accept-trade"
	CmdResolveProposal       = "resolve-proposal"
	CmdListTransactions      = "list-transactions"
	CmdListAvailableTeams    = "list-available-teams"
	CmdResyncLeagueData      = "resync-league-data"
	CmdProvisionTeamChannels = "provision-team-channels"
)

// Args are the already-parsed options of a command. Each command reads the
// fields it needs and ignores the rest.
type Args struct {
	Name           string           `json:"name,omitempty"`
	Team           string           `json:"team,omitempty"`
	Player         string           `json:"player,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Years          int              `json:"years,omitempty"`
	Justification  string           `json:"justification,omitempty"`
	Counterparty   string           `json:"counterparty,omitempty"`
	Outgoing       []string         `json:"outgoing,omitempty"`
	Incoming       []string         `json:"incoming,omitempty"`
	OutgoingSalary *decimal.Decimal `json:"outgoing_salary,omitempty"`
	IncomingSalary *decimal.Decimal `json:"incoming_salary,omitempty"`
	Status         string           `json:"status,omitempty"`
	Proposal       string           `json:"proposal,omitempty"`
	Token          string           `json:"token,omitempty"`
	Verdict        string           `json:"verdict,omitempty"`
}

// Command is one invocation. ID is the interaction id.
type Command struct {
	ID    string
	Name  string
	Actor service.Actor
	Args  Args
}

// Visibility says who sees a reply.
type Visibility string

const (
	Public    Visibility = "public"
	Ephemeral Visibility = "ephemeral"
)

// Reply is a message sent back to the requester. Kind is set when the
// command failed; Deferred marks an acknowledgment that a follow-up will come.
type Reply struct {
	Visibility Visibility   `json:"visibility"`
	Text       string       `json:"text"`
	Kind       service.Kind `json:"kind,omitempty"`
	Deferred   bool         `json:"deferred,omitempty"`
	Data       any          `json:"data,omitempty"`
}

// Responder delivers replies for one interaction.
type Responder interface {
	// Ack sends the immediate reply.
	Ack(ctx context.Context, r Reply) error
	// FollowUp sends a deferred reply after an acknowledgment.
	FollowUp(ctx context.Context, r Reply) error
}
