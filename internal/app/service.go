// Package service implements the league command surface on top of the
// domain packages. Every mutating operation is one load-mutate-save unit
// over the injected store.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/notify"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/provision"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/repository"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/rostersource"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/capmath"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/guard"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/resolve"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/trade"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/types"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Actor is the user invoking a command.
type Actor struct {
	ID    string
	Roles []string
}

// HasRole reports whether the actor holds role (case-insensitive).
func (a Actor) HasRole(role string) bool {
	return slices.ContainsFunc(a.Roles, func(r string) bool { return strings.EqualFold(r, role) })
}

// Outcome is a recorded transaction plus the result of posting it.
// A delivery failure never undoes the state change.
type Outcome struct {
	Transaction   model.Transaction `json:"transaction"`
	Delivered     bool              `json:"delivered"`
	DeliveryError string            `json:"delivery_error,omitempty"`
}

// Service implements the league commands.
type Service struct {
	// mu serializes load-mutate-save units within this process.
	mu sync.Mutex

	store       repository.Store
	roster      rostersource.Source
	notifier    notify.Notifier
	provisioner provision.Provisioner
	guard       guard.Guard
	validator   *trade.Validator
	resolver    *resolve.Resolver

	thresholds      capmath.Thresholds
	season          string
	approverRole    string
	approvalChannel string
	publicChannel   string
	teamCategory    string

	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the league state backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRosterSource sets the dataset source. Without one, resync is refused.
func WithRosterSource(src rostersource.Source) Option {
	return func(s *Service) { s.roster = src }
}

// WithNotifier sets the approval and announcement sink.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithProvisioner sets the channel provisioning collaborator.
func WithProvisioner(p provision.Provisioner) Option {
	return func(s *Service) {
		if p != nil {
			s.provisioner = p
		}
	}
}

// WithGuard replaces the single-fire claim registry.
func WithGuard(g guard.Guard) Option {
	return func(s *Service) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithThresholds sets the cap breakpoints.
func WithThresholds(t capmath.Thresholds) Option {
	return func(s *Service) { s.thresholds = t }
}

// WithSeason sets the active salary season label.
func WithSeason(season string) Option {
	return func(s *Service) {
		if season != "" {
			s.season = season
		}
	}
}

// WithApronMultiplier sets the incoming-salary ceiling for teams over the soft cap.
func WithApronMultiplier(m decimal.Decimal) Option {
	return func(s *Service) { s.validator = trade.NewValidator(m) }
}

// WithApproverRole sets the only role allowed to resolve proposals.
func WithApproverRole(role string) Option {
	return func(s *Service) {
		if role != "" {
			s.approverRole = role
		}
	}
}

// WithAliases sets the team nickname table.
func WithAliases(aliases map[string]string) Option {
	return func(s *Service) { s.resolver = resolve.New(aliases) }
}

// WithChannels names the approval and public announcement channels.
func WithChannels(approval, public string) Option {
	return func(s *Service) {
		if approval != "" {
			s.approvalChannel = approval
		}
		if public != "" {
			s.publicChannel = public
		}
	}
}

// WithTeamCategory sets the category provisioned channels are grouped under.
func WithTeamCategory(category string) Option {
	return func(s *Service) {
		if category != "" {
			s.teamCategory = category
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Defaults: in-memory store, in-memory feed and
// channel registry, thresholds 126/140/178, season 2025-26.
func New(opts ...Option) *Service {
	s := &Service{
		store:       repository.NewMemoryStore(),
		notifier:    notify.NewFeed(0),
		provisioner: provision.NewRegistry(),
		guard:       guard.NewInMemoryGuard(),
		validator:   trade.NewValidator(trade.DefaultApronMultiplier),
		resolver:    resolve.New(nil),
		thresholds: capmath.Thresholds{
			Floor:   decimal.NewFromInt(126),
			SoftCap: decimal.NewFromInt(140),
			HardCap: decimal.NewFromInt(178),
		},
		season:          "2025-26",
		approverRole:    "commissioner",
		approvalChannel: "trade-approvals",
		publicChannel:   "transactions",
		teamCategory:    "Franchises",
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("league")
	}
	return s
}

// Season returns the active season label.
func (s *Service) Season() string { return s.season }

// Thresholds returns the configured cap breakpoints.
func (s *Service) Thresholds() capmath.Thresholds { return s.thresholds }

// update runs fn as one serialized load-mutate-save and refreshes the state gauges.
func (s *Service) update(ctx context.Context, fn func(*model.LeagueState) error) (*model.LeagueState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := repository.Update(ctx, s.store, fn)
	if err != nil {
		return nil, err
	}
	observeState(state)
	return state, nil
}

func (s *Service) load(ctx context.Context) (*model.LeagueState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "load league state failed", logger.Error(err))
		return nil, err
	}
	return state, nil
}

func observeState(state *model.LeagueState) {
	metrics.UpdateRegisteredTeams(len(state.Teams))
	metrics.UpdatePendingProposals(state.Pending())
}

// ownTeam returns the requester's team or a NotFound error.
func ownTeam(state *model.LeagueState, actor Actor) (*model.Team, error) {
	team := state.Teams[actor.ID]
	if team == nil {
		return nil, fmt.Errorf("%w: you have not registered a team, use register-team first", ErrNotFound)
	}
	return team, nil
}

// registeredTeam finds a team by owner id, key or display name, then by
// resolving the text against registered keys.
func (s *Service) registeredTeam(state *model.LeagueState, ref string) (string, *model.Team) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if team := state.Teams[ref]; team != nil {
		return ref, team
	}
	if owner, team := state.TeamByKey(ref); team != nil {
		return owner, team
	}
	keys := make([]string, 0, len(state.Teams))
	for _, owner := range state.Owners() {
		team := state.Teams[owner]
		if strings.EqualFold(team.Name, ref) {
			return owner, team
		}
		keys = append(keys, team.Key)
	}
	if key, err := s.resolver.Resolve(ref, keys); err == nil {
		return state.TeamByKey(key)
	}
	return "", nil
}

// summary builds the show-team view.
func (s *Service) summary(team *model.Team) types.TeamSummary {
	st := capmath.Evaluate(team.Players(s.season), s.season, s.thresholds)
	return types.TeamSummary{
		Key:      team.Key,
		Name:     team.Name,
		GM:       team.GM,
		CapSpace: team.CapSpace,
		Payroll:  st.Total,
		Players:  len(team.Roster),
		Status:   string(st.Status),
		CapBar:   capmath.RenderCapBar(st.Total, s.thresholds.SoftCap),
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.String() + "M"
}
