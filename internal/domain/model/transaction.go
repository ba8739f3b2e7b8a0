package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the Transaction variants.
type TransactionKind string

const (
	KindTrade TransactionKind = "trade"
	KindSign  TransactionKind = "sign"
	KindCut   TransactionKind = "cut"
)

// Status is the proposal lifecycle state.
type Status string

const (
	StatusProposed  Status = "proposed"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Transaction is one entry of the append-only log. Only Status and the
// Resolved* fields change after creation.
type Transaction struct {
	ID            string          `json:"id"`
	Kind          TransactionKind `json:"kind"`
	Status        Status          `json:"status"`
	Requester     string          `json:"requester"`
	Team          string          `json:"team"`
	Justification string          `json:"justification,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	// Sign and Cut.
	Player string           `json:"player,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Years  int              `json:"years,omitempty"`

	// Trade.
	Counterparty     string          `json:"counterparty,omitempty"`
	CounterpartyTeam string          `json:"counterparty_team,omitempty"`
	Outgoing         []string        `json:"outgoing,omitempty"`
	Incoming         []string        `json:"incoming,omitempty"`
	OutgoingSalary   decimal.Decimal `json:"outgoing_salary,omitzero"`
	IncomingSalary   decimal.Decimal `json:"incoming_salary,omitzero"`
	ActionToken      string          `json:"action_token,omitempty"`

	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
}
