package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/notify"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/capmath"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/trade"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/workflow"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/metrics"
	"github.com/shopspring/decimal"
)

// SignRequest asks to sign a free agent.
type SignRequest struct {
	Player        string
	Amount        decimal.Decimal
	Years         int
	Justification string
}

// CutRequest asks to release a rostered player.
type CutRequest struct {
	Player        string
	Justification string
}

// TradeProposal is an exchange offered to another GM. Nil salaries are
// derived from the named players' active-season figures.
type TradeProposal struct {
	Counterparty   string
	Outgoing       []string
	Incoming       []string
	OutgoingSalary *decimal.Decimal
	IncomingSalary *decimal.Decimal
	Justification  string
}

// SignFreeAgent records a signing request and posts it for review.
func (s *Service) SignFreeAgent(ctx context.Context, actor Actor, req SignRequest) (Outcome, error) {
	req.Player = strings.TrimSpace(req.Player)
	s.logger.Debug(ctx, "sign free agent", logger.String("requester", actor.ID), logger.String("player", req.Player))
	switch {
	case req.Player == "":
		return Outcome{}, fmt.Errorf("%w: player name is required", ErrBadRequest)
	case req.Amount.IsNegative():
		return Outcome{}, fmt.Errorf("%w: salary must not be negative", ErrBadRequest)
	case req.Years < 0:
		return Outcome{}, fmt.Errorf("%w: contract length must not be negative", ErrBadRequest)
	}

	var (
		tx    model.Transaction
		lines []string
	)
	_, err := s.update(ctx, func(state *model.LeagueState) error {
		team, err := ownTeam(state, actor)
		if err != nil {
			return err
		}
		if team.FindPlayer(req.Player) >= 0 {
			return fmt.Errorf("%w: %s is already on your roster", ErrConflict, req.Player)
		}
		tx = workflow.Sign(actor.ID, team, req.Player, req.Amount, req.Years, req.Justification, s.now())
		state.Trades = append(state.Trades, tx)

		lines = []string{
			fmt.Sprintf("Signing request %s", tx.ID),
			fmt.Sprintf("%s (GM %s) wants to sign %s for %s", team.Name, actor.ID, req.Player, money(req.Amount)),
		}
		if req.Years > 0 {
			lines = append(lines, fmt.Sprintf("Contract length: %d years", req.Years))
		}
		lines = append(lines, fmt.Sprintf("Cap space now %s, after signing %s", money(team.CapSpace), money(team.CapSpace.Sub(req.Amount))))
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	metrics.RecordTransactionProposed(string(model.KindSign))
	s.logger.Info(ctx, "signing requested", logger.String("proposal", tx.ID), logger.String("player", req.Player))
	return s.post(ctx, tx, withJustification(lines, req.Justification), nil), nil
}

// CutPlayer records a release request and posts it for review.
func (s *Service) CutPlayer(ctx context.Context, actor Actor, req CutRequest) (Outcome, error) {
	req.Player = strings.TrimSpace(req.Player)
	s.logger.Debug(ctx, "cut player", logger.String("requester", actor.ID), logger.String("player", req.Player))
	if req.Player == "" {
		return Outcome{}, fmt.Errorf("%w: player name is required", ErrBadRequest)
	}

	var (
		tx    model.Transaction
		lines []string
	)
	_, err := s.update(ctx, func(state *model.LeagueState) error {
		team, err := ownTeam(state, actor)
		if err != nil {
			return err
		}
		i := team.FindPlayer(req.Player)
		if i < 0 {
			return fmt.Errorf("%w: %s is not on the %s roster", ErrNotFound, req.Player, team.Name)
		}
		entry := team.Roster[i]
		tx = workflow.Cut(actor.ID, team, entry.Name, req.Justification, s.now())
		state.Trades = append(state.Trades, tx)

		after := team.CapSpace
		if amount, ok := entry.Salary.Amount(); ok {
			after = after.Add(amount)
		}
		lines = []string{
			fmt.Sprintf("Release request %s", tx.ID),
			fmt.Sprintf("%s (GM %s) wants to cut %s (%s)", team.Name, actor.ID, entry.Name, entry.Salary),
			fmt.Sprintf("Cap space now %s, after release %s", money(team.CapSpace), money(after)),
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	metrics.RecordTransactionProposed(string(model.KindCut))
	s.logger.Info(ctx, "release requested", logger.String("proposal", tx.ID), logger.String("player", tx.Player))
	return s.post(ctx, tx, withJustification(lines, req.Justification), nil), nil
}

// ProposeTrade validates the exchange against the proposer's cap state and,
// when legal, records it and posts it with a one-time Accept/Reject pair.
// A violation creates no record.
func (s *Service) ProposeTrade(ctx context.Context, actor Actor, p TradeProposal) (Outcome, error) {
	p.Outgoing = cleanNames(p.Outgoing)
	p.Incoming = cleanNames(p.Incoming)
	s.logger.Debug(ctx, "propose trade",
		logger.String("requester", actor.ID),
		logger.String("counterparty", p.Counterparty),
		logger.Int("outgoing", len(p.Outgoing)),
		logger.Int("incoming", len(p.Incoming)))
	if len(p.Outgoing)+len(p.Incoming) == 0 {
		return Outcome{}, fmt.Errorf("%w: a trade needs at least one player", ErrBadRequest)
	}
	for _, v := range []*decimal.Decimal{p.OutgoingSalary, p.IncomingSalary} {
		if v != nil && v.IsNegative() {
			return Outcome{}, fmt.Errorf("%w: salary figures must not be negative", ErrBadRequest)
		}
	}

	var (
		tx    model.Transaction
		lines []string
	)
	_, err := s.update(ctx, func(state *model.LeagueState) error {
		from, err := ownTeam(state, actor)
		if err != nil {
			return err
		}
		owner, to := s.registeredTeam(state, p.Counterparty)
		if to == nil {
			return fmt.Errorf("%w: no registered team matches %q", ErrNotFound, p.Counterparty)
		}
		if owner == actor.ID {
			return fmt.Errorf("%w: you cannot trade with yourself", ErrBadRequest)
		}

		outgoing, outTotal, err := s.rostered(from, p.Outgoing)
		if err != nil {
			return err
		}
		incoming, inTotal, err := s.rostered(to, p.Incoming)
		if err != nil {
			return err
		}
		if p.OutgoingSalary != nil {
			outTotal = *p.OutgoingSalary
		}
		if p.IncomingSalary != nil {
			inTotal = *p.IncomingSalary
		}

		sender := capmath.Evaluate(from.Players(s.season), s.season, s.thresholds)
		if err := s.validator.Validate(sender, outTotal, inTotal); err != nil {
			var v *trade.Violation
			if errors.As(err, &v) {
				metrics.RecordCapViolation(string(v.Rule))
			}
			s.logger.Info(ctx, "trade refused by cap rules",
				logger.String("requester", actor.ID),
				logger.String("status", string(sender.Status)),
				logger.String("total", sender.Total.String()),
				logger.String("outgoing", outTotal.String()),
				logger.String("incoming", inTotal.String()),
				logger.Error(err))
			return err
		}

		tx = workflow.Trade(workflow.TradeRequest{
			Requester:        actor.ID,
			Team:             from.Key,
			Counterparty:     owner,
			CounterpartyTeam: to.Key,
			Outgoing:         outgoing,
			Incoming:         incoming,
			OutgoingSalary:   outTotal,
			IncomingSalary:   inTotal,
			Justification:    p.Justification,
		}, s.now())
		state.Trades = append(state.Trades, tx)

		lines = []string{
			fmt.Sprintf("Trade proposal %s", tx.ID),
			fmt.Sprintf("%s send: %s", from.Name, listOrNone(outgoing)),
			fmt.Sprintf("%s send: %s", to.Name, listOrNone(incoming)),
			fmt.Sprintf("Outgoing %s / incoming %s", money(outTotal), money(inTotal)),
			fmt.Sprintf("%s payroll %s (%s)", from.Name, money(sender.Total), sender.Status),
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	metrics.RecordTransactionProposed(string(model.KindTrade))
	s.logger.Info(ctx, "trade proposed", logger.String("proposal", tx.ID), logger.String("counterparty", tx.Counterparty))
	actions := []notify.Action{
		{Label: "Accept", Verdict: string(workflow.Accept), ProposalID: tx.ID, Token: tx.ActionToken},
		{Label: "Reject", Verdict: string(workflow.Reject), ProposalID: tx.ID, Token: tx.ActionToken},
	}
	return s.post(ctx, tx, withJustification(lines, p.Justification), actions), nil
}

// ResolveProposal is the approver's Accept/Reject action. Only the first
// successful invocation per proposal takes effect; later ones are refused
// with a Conflict and produce no announcement.
func (s *Service) ResolveProposal(ctx context.Context, actor Actor, id, token, verdict string) (Outcome, error) {
	if !actor.HasRole(s.approverRole) {
		return Outcome{}, fmt.Errorf("%w: only the %s role can resolve proposals", ErrForbidden, s.approverRole)
	}
	v, err := workflow.ParseVerdict(verdict)
	if err != nil {
		return Outcome{}, err
	}

	state, err := s.load(ctx)
	if err != nil {
		return Outcome{}, err
	}
	tx := state.Transaction(id)
	if tx == nil {
		return Outcome{}, fmt.Errorf("%w: %s", workflow.ErrProposalNotFound, id)
	}
	if tx.ActionToken == "" || tx.ActionToken != token {
		return Outcome{}, fmt.Errorf("%w: action token does not match proposal %s", ErrForbidden, id)
	}
	return s.resolve(ctx, actor.ID, id, v)
}

// AcceptTrade lets the counterparty accept their most recent pending incoming
// trade through the same single-fire action.
func (s *Service) AcceptTrade(ctx context.Context, actor Actor) (Outcome, error) {
	state, err := s.load(ctx)
	if err != nil {
		return Outcome{}, err
	}
	tx := workflow.LatestIncoming(state, actor.ID)
	if tx == nil {
		return Outcome{}, fmt.Errorf("%w: you have no pending trades", ErrConflict)
	}
	return s.resolve(ctx, actor.ID, tx.ID, workflow.Accept)
}

// resolve claims the proposal, applies the verdict and announces acceptance.
// The claim is released when nothing was changed so the action stays usable.
func (s *Service) resolve(ctx context.Context, actorID, id string, v workflow.Verdict) (Outcome, error) {
	if !s.guard.Claim(ctx, id) {
		return Outcome{}, fmt.Errorf("%w: %s", workflow.ErrAlreadyResolved, id)
	}

	var (
		done         model.Transaction
		announcement string
	)
	_, err := s.update(ctx, func(state *model.LeagueState) error {
		var (
			tx  *model.Transaction
			err error
		)
		if v == workflow.Accept {
			tx, err = workflow.ApplyAccept(state, id, actorID, s.season, s.thresholds, s.now())
		} else {
			tx, err = workflow.ApplyReject(state, id, actorID, s.now())
		}
		if err != nil {
			return err
		}
		done = *tx
		if v == workflow.Accept {
			announcement = tradeAnnouncement(state, done)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, workflow.ErrAlreadyResolved) {
			s.guard.Release(ctx, id)
		}
		if errors.Is(err, workflow.ErrInvariant) {
			s.logger.Warn(ctx, "resolution aborted", logger.String("proposal", id), logger.Error(err))
		}
		return Outcome{}, err
	}

	metrics.RecordResolution(string(v))
	s.logger.Info(ctx, "proposal resolved",
		logger.String("proposal", id),
		logger.String("verdict", string(v)),
		logger.String("by", actorID))

	out := Outcome{Transaction: done, Delivered: true}
	if v == workflow.Accept {
		if err := s.notifier.Announce(ctx, s.publicChannel, announcement); err != nil {
			metrics.RecordAnnouncementFailure()
			s.logger.Warn(ctx, "announcement failed", logger.String("proposal", id), logger.Error(err))
			out.Delivered = false
			out.DeliveryError = err.Error()
		}
	}
	return out, nil
}

// ListTransactions returns the log in creation order, optionally filtered by status.
func (s *Service) ListTransactions(ctx context.Context, status string) ([]model.Transaction, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch model.Status(status) {
	case "", model.StatusProposed, model.StatusCompleted, model.StatusRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadRequest, status)
	}

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(state.Trades))
	for _, tx := range state.Trades {
		if status == "" || string(tx.Status) == status {
			out = append(out, tx)
		}
	}
	return out, nil
}

// post sends the approval request. A delivery failure is reported on the
// outcome; the record stays.
func (s *Service) post(ctx context.Context, tx model.Transaction, lines []string, actions []notify.Action) Outcome {
	out := Outcome{Transaction: tx, Delivered: true}
	err := s.notifier.RequestApproval(ctx, notify.Approval{
		Channel:     s.approvalChannel,
		Transaction: tx,
		Lines:       lines,
		Actions:     actions,
	})
	if err != nil {
		metrics.RecordAnnouncementFailure()
		s.logger.Warn(ctx, "approval post failed", logger.String("proposal", tx.ID), logger.Error(err))
		out.Delivered = false
		out.DeliveryError = err.Error()
	}
	return out
}

// rostered returns the canonical names of players on team and their summed
// active-season salary. A missing or repeated name is an error.
func (s *Service) rostered(team *model.Team, names []string) ([]string, decimal.Decimal, error) {
	total := decimal.Zero
	out := make([]string, 0, len(names))
	seen := make(map[int]bool, len(names))
	for _, name := range names {
		i := team.FindPlayer(name)
		if i < 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: %s is not on the %s roster", ErrNotFound, name, team.Name)
		}
		if seen[i] {
			return nil, decimal.Zero, fmt.Errorf("%w: %s is named twice", ErrBadRequest, name)
		}
		seen[i] = true
		entry := team.Roster[i]
		out = append(out, entry.Name)
		if amount, ok := entry.Salary.Amount(); ok {
			total = total.Add(amount)
		}
	}
	return out, total, nil
}

func tradeAnnouncement(state *model.LeagueState, tx model.Transaction) string {
	from, to := tx.Team, tx.CounterpartyTeam
	if t := state.Teams[tx.Requester]; t != nil {
		from = t.Name
	}
	if t := state.Teams[tx.Counterparty]; t != nil {
		to = t.Name
	}
	return fmt.Sprintf("Trade completed: %s send %s to %s; %s send %s to %s.",
		from, listOrNone(tx.Outgoing), to, to, listOrNone(tx.Incoming), from)
}

func withJustification(lines []string, justification string) []string {
	if j := strings.TrimSpace(justification); j != "" {
		lines = append(lines, "Justification: "+j)
	}
	return lines
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "nothing"
	}
	return strings.Join(names, ", ")
}
