package gateway

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/mq/queue"
	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/types"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/metrics"
	"github.com/google/uuid"
)

// League is the command surface the dispatcher drives. *service.Service implements it.
type League interface {
	RegisterTeam(ctx context.Context, actor service.Actor, name string) (*model.Team, error)
	ShowTeam(ctx context.Context, actor service.Actor) (types.TeamSummary, error)
	ShowRoster(ctx context.Context, actor service.Actor, target string) (types.RosterView, error)
	SignFreeAgent(ctx context.Context, actor service.Actor, req service.SignRequest) (service.Outcome, error)
	CutPlayer(ctx context.Context, actor service.Actor, req service.CutRequest) (service.Outcome, error)
	ProposeTrade(ctx context.Context, actor service.Actor, p service.TradeProposal) (service.Outcome, error)
	AcceptTrade(ctx context.Context, actor service.Actor) (service.Outcome, error)
	ResolveProposal(ctx context.Context, actor service.Actor, id, token, verdict string) (service.Outcome, error)
	ListTransactions(ctx context.Context, status string) ([]model.Transaction, error)
	ListAvailableTeams(ctx context.Context) ([]types.AvailableTeam, error)
	ResyncLeagueData(ctx context.Context) (types.ResyncReport, error)
	ProvisionTeamChannels(ctx context.Context) (types.ProvisionReport, error)
}

// handler runs one command. Deferred handlers are acknowledged with pending
// and answered by a follow-up.
type handler struct {
	deferred bool
	pending  string
	run      func(ctx context.Context, l League, cmd Command) (Reply, error)
}

var handlers = map[string]handler{
	CmdRegisterTeam:       {run: registerTeam},
	CmdShowTeam:           {run: showTeam},
	CmdShowRoster:         {run: showRoster},
	CmdSignFreeAgent:      {run: signFreeAgent},
	CmdCutPlayer:          {run: cutPlayer},
	CmdAcceptTrade:        {run: acceptTrade},
	CmdResolveProposal:    {run: resolveProposal},
	CmdListTransactions:   {run: listTransactions},
	CmdListAvailableTeams: {run: listAvailableTeams},
	CmdProposeTrade: {
		deferred: true,
		pending:  "Checking the trade against the cap rules...",
		run:      proposeTrade,
	},
	CmdResyncLeagueData: {
		deferred: true,
		pending:  "Fetching the league dataset...",
		run:      resyncLeagueData,
	},
	CmdProvisionTeamChannels: {
		deferred: true,
		pending:  "Creating team channels...",
		run:      provisionTeamChannels,
	},
}

// Commands lists the supported command names.
func Commands() []string {
	out := make([]string, 0, len(handlers))
	for name := range handlers {
		out = append(out, name)
	}
	return out
}

// IsDeferred reports whether name is answered by an ack plus a follow-up.
func IsDeferred(name string) bool {
	return handlers[name].deferred
}

// Dispatcher routes commands to the league.
type Dispatcher struct {
	league League
	jobs   queue.Queue
	now    func() time.Time
	logger logger.Logger
}

// NewDispatcher creates a dispatcher over league.
func NewDispatcher(league League, opts ...Option) *Dispatcher {
	d := &Dispatcher{league: league, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Get().Named("gateway")
	}
	return d
}

// Dispatch handles cmd and answers through r. Command failures are replies,
// not errors; the returned error covers unknown commands, a full queue and
// responder failures.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command, r Responder) error {
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}
	h, ok := handlers[cmd.Name]
	if !ok {
		metrics.RecordCommand("unknown", string(service.KindBadRequest))
		_ = r.Ack(ctx, Reply{Visibility: Ephemeral, Text: fmt.Sprintf("Unknown command %q.", cmd.Name), Kind: service.KindBadRequest})
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
	}

	if !h.deferred {
		return r.Ack(ctx, d.execute(ctx, cmd, h))
	}

	if err := r.Ack(ctx, Reply{Visibility: Ephemeral, Text: h.pending, Deferred: true}); err != nil {
		return err
	}
	job := queue.Job{
		ID:         cmd.ID,
		Command:    cmd.Name,
		EnqueuedAt: d.now(),
		Run: func(jobCtx context.Context) error {
			return r.FollowUp(jobCtx, d.execute(jobCtx, cmd, h))
		},
	}
	if d.jobs == nil {
		return job.Run(ctx)
	}
	if err := d.jobs.Enqueue(ctx, job); err != nil {
		metrics.RecordCommand(cmd.Name, string(service.KindTransient))
		d.logger.Warn(ctx, "deferred command rejected",
			logger.String("interaction", cmd.ID),
			logger.String("command", cmd.Name),
			logger.Error(err))
		_ = r.FollowUp(ctx, Reply{Visibility: Ephemeral, Text: "The league is busy right now, try again shortly.", Kind: service.KindTransient})
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return nil
}

// execute runs the handler and turns a failure into an ephemeral reply.
func (d *Dispatcher) execute(ctx context.Context, cmd Command, h handler) Reply {
	start := time.Now()
	reply, err := d.run(ctx, cmd, h)
	if err == nil {
		metrics.RecordCommand(cmd.Name, "ok")
		d.logger.Debug(ctx, "command handled",
			logger.String("interaction", cmd.ID),
			logger.String("command", cmd.Name),
			logger.Duration("took", time.Since(start)))
		return reply
	}

	kind := service.KindOf(err)
	metrics.RecordCommand(cmd.Name, string(kind))
	fields := []logger.Field{
		logger.String("interaction", cmd.ID),
		logger.String("command", cmd.Name),
		logger.String("requester", cmd.Actor.ID),
		logger.String("kind", string(kind)),
		logger.Error(err),
	}
	switch kind {
	case service.KindInternal:
		d.logger.Error(ctx, "command failed", fields...)
	case service.KindTransient, service.KindInvariant:
		d.logger.Warn(ctx, "command failed", fields...)
	default:
		d.logger.Info(ctx, "command refused", fields...)
	}
	return Reply{Visibility: Ephemeral, Text: failureText(kind, err), Kind: kind}
}

// run calls the handler. A panic becomes ErrCommandPanicked so the
// interaction still ends with a reply.
func (d *Dispatcher) run(ctx context.Context, cmd Command, h handler) (reply Reply, err error) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error(ctx, "command panicked",
				logger.String("interaction", cmd.ID),
				logger.String("command", cmd.Name),
				logger.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%w: %v", ErrCommandPanicked, p)
		}
	}()
	return h.run(ctx, d.league, cmd)
}

func registerTeam(ctx context.Context, l League, cmd Command) (Reply, error) {
	team, err := l.RegisterTeam(ctx, cmd.Actor, cmd.Args.Name)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Visibility: Public, Text: registeredText(team), Data: team}, nil
}

func showTeam(ctx context.Context, l League, cmd Command) (Reply, error) {
	sum, err := l.ShowTeam(ctx, cmd.Actor)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Visibility: Ephemeral, Text: teamText(sum), Data: sum}, nil
}

func showRoster(ctx context.Context, l League, cmd Command) (Reply, error) {
	view, err := l.ShowRoster(ctx, cmd.Actor, cmd.Args.Team)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Visibility: Public, Text: rosterText(view), Data: view}, nil
}

func signFreeAgent(ctx context.Context, l League, cmd Command) (Reply, error) {
	if cmd.Args.Amount == nil {
		return Reply{}, fmt.Errorf("%w: amount is required", service.ErrBadRequest)
	}
	out, err := l.SignFreeAgent(ctx, cmd.Actor, service.SignRequest{
		Player:        cmd.Args.Player,
		Amount:        *cmd.Args.Amount,
		Years:         cmd.Args.Years,
		Justification: cmd.Args.Justification,
	})
	if err != nil {
		return Reply{}, err
	}
	return outcomeReply(Ephemeral, fmt.Sprintf("Signing request for %s sent to the league office.", out.Transaction.Player), out), nil
}

func cutPlayer(ctx context.Context, l League, cmd Command) (Reply, error) {
	out, err := l.CutPlayer(ctx, cmd.Actor, service.CutRequest{Player: cmd.Args.Player, Justification: cmd.Args.Justification})
	if err != nil {
		return Reply{}, err
	}
	return outcomeReply(Ephemeral, fmt.Sprintf("Release request for %s sent to the league office.", out.Transaction.Player), out), nil
}

func proposeTrade(ctx context.Context, l League, cmd Command) (Reply, error) {
	out, err := l.ProposeTrade(ctx, cmd.Actor, service.TradeProposal{
		Counterparty:   cmd.Args.Counterparty,
		Outgoing:       cmd.Args.Outgoing,
		Incoming:       cmd.Args.Incoming,
		OutgoingSalary: cmd.Args.OutgoingSalary,
		IncomingSalary: cmd.Args.IncomingSalary,
		Justification:  cmd.Args.Justification,
	})
	if err != nil {
		return Reply{}, err
	}
	return outcomeReply(Ephemeral, proposalText(out.Transaction), out), nil
}

func acceptTrade(ctx context.Context, l League, cmd Command) (Reply, error) {
	out, err := l.AcceptTrade(ctx, cmd.Actor)
	if err != nil {
		return Reply{}, err
	}
	return outcomeReply(Public, resolvedText(out.Transaction), out), nil
}

func resolveProposal(ctx context.Context, l League, cmd Command) (Reply, error) {
	out, err := l.ResolveProposal(ctx, cmd.Actor, cmd.Args.Proposal, cmd.Args.Token, cmd.Args.Verdict)
	if err != nil {
		return Reply{}, err
	}
	return outcomeReply(Public, resolvedText(out.Transaction), out), nil
}

func listTransactions(ctx context.Context, l League, cmd Command) (Reply, error) {
	txs, err := l.ListTransactions(ctx, cmd.Args.Status)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Visibility: Ephemeral, Text: transactionsText(txs), Data: txs}, nil
}

func listAvailableTeams(ctx context.Context, l League, _ Command) (Reply, error) {
	teams, err := l.ListAvailableTeams(ctx)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Visibility: Ephemeral, Text: availableText(teams), Data: teams}, nil
}

func resyncLeagueData(ctx context.Context, l League, _ Command) (Reply, error) {
	report, err := l.ResyncLeagueData(ctx)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Visibility: Ephemeral, Text: resyncText(report), Data: report}, nil
}

func provisionTeamChannels(ctx context.Context, l League, _ Command) (Reply, error) {
	report, err := l.ProvisionTeamChannels(ctx)
	if err != nil {
		if errors.Is(err, service.ErrTransient) && len(report.Failed) > 0 {
			return Reply{}, fmt.Errorf("%w\n%s", err, provisionText(report))
		}
		return Reply{}, err
	}
	return Reply{Visibility: Ephemeral, Text: provisionText(report), Data: report}, nil
}

// outcomeReply reports a recorded transaction, noting a failed post.
func outcomeReply(v Visibility, text string, out service.Outcome) Reply {
	if !out.Delivered {
		text += "\nThe record was saved, but posting it failed: " + out.DeliveryError
	}
	return Reply{Visibility: v, Text: text, Data: out}
}
