package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/repository"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/capmath"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/resolve"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/types"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/workflow"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
)

// RegisterTeam claims a franchise for the actor. A name that matches a
// dataset team exactly or through the alias table claims its canonical key
// and seeds the roster; any other name becomes the key of an empty franchise.
func (s *Service) RegisterTeam(ctx context.Context, actor Actor, name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	s.logger.Debug(ctx, "register team", logger.String("requester", actor.ID), logger.String("name", name))
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrBadRequest)
	}

	var team *model.Team
	_, err := s.update(ctx, func(state *model.LeagueState) error {
		if existing := state.Teams[actor.ID]; existing != nil {
			return fmt.Errorf("%w: you already registered %s", ErrConflict, existing.Name)
		}

		team = &model.Team{Key: name, Name: name, GM: actor.ID, Roster: []model.RosterEntry{}}
		if key, err := s.resolver.Claim(name, resolve.Keys(state.External)); err == nil {
			ext := state.External[key]
			team.Key = key
			team.Name = ext.DisplayName(key)
			team.Roster = ext.Entries(s.season)
		}
		if owner, _ := state.TeamByKey(team.Key); owner != "" {
			return fmt.Errorf("%w: %s is already claimed by another GM", ErrConflict, team.Name)
		}

		workflow.Recompute(team, s.season, s.thresholds)
		state.Teams[actor.ID] = team
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "team registered",
		logger.String("requester", actor.ID),
		logger.String("key", team.Key),
		logger.Int("players", len(team.Roster)))
	return team, nil
}

// ShowTeam summarizes the actor's franchise.
func (s *Service) ShowTeam(ctx context.Context, actor Actor) (types.TeamSummary, error) {
	state, err := s.load(ctx)
	if err != nil {
		return types.TeamSummary{}, err
	}
	team, err := ownTeam(state, actor)
	if err != nil {
		return types.TeamSummary{}, err
	}
	return s.summary(team), nil
}

// ShowRoster lists a roster. An empty target means the actor's own team;
// otherwise a GM id or registered team is tried before the dataset.
func (s *Service) ShowRoster(ctx context.Context, actor Actor, target string) (types.RosterView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return types.RosterView{}, err
	}

	if strings.TrimSpace(target) == "" {
		team, err := ownTeam(state, actor)
		if err != nil {
			return types.RosterView{}, err
		}
		return s.localRoster(team), nil
	}
	if _, team := s.registeredTeam(state, target); team != nil {
		return s.localRoster(team), nil
	}

	key, err := s.resolver.Resolve(target, resolve.Keys(state.External))
	if err != nil {
		return types.RosterView{}, fmt.Errorf("%w: no team matches %q", ErrNotFound, target)
	}
	ext := state.External[key]
	view := types.RosterView{
		Team:    ext.DisplayName(key),
		Key:     key,
		Source:  types.SourceDataset,
		Season:  s.season,
		Payroll: capmath.ComputeSalaryTotal(ext.Roster, s.season),
		Lines:   make([]types.RosterLine, len(ext.Roster)),
	}
	for i, p := range ext.Roster {
		view.Lines[i] = types.RosterLine{Name: p.Name, Position: p.Position, Overall: p.Overall, Salary: p.SalaryFor(s.season).String()}
	}
	return view, nil
}

func (s *Service) localRoster(team *model.Team) types.RosterView {
	view := types.RosterView{
		Team:    team.Name,
		Key:     team.Key,
		Source:  types.SourceLocal,
		Season:  s.season,
		Payroll: capmath.ComputeSalaryTotal(team.Players(s.season), s.season),
		Lines:   make([]types.RosterLine, len(team.Roster)),
	}
	for i, e := range team.Roster {
		view.Lines[i] = types.RosterLine{Name: e.Name, Position: e.Position, Overall: e.Overall, Salary: e.Salary.String()}
	}
	return view
}

// ListAvailableTeams returns dataset franchises nobody has claimed, sorted by key.
func (s *Service) ListAvailableTeams(ctx context.Context) ([]types.AvailableTeam, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	keys := resolve.Keys(state.External)
	sort.Strings(keys)

	out := make([]types.AvailableTeam, 0, len(keys))
	for _, key := range keys {
		if owner, _ := state.TeamByKey(key); owner != "" {
			continue
		}
		ext := state.External[key]
		out = append(out, types.AvailableTeam{Key: key, Name: ext.DisplayName(key), Players: len(ext.Roster)})
	}
	return out, nil
}

// ResyncLeagueData fetches the dataset, replaces the cached copy, re-seeds
// every claimed team from it and creates teams for dataset GMs that have none.
func (s *Service) ResyncLeagueData(ctx context.Context) (types.ResyncReport, error) {
	if s.roster == nil {
		return types.ResyncReport{}, fmt.Errorf("%w: roster source is not configured", ErrBadRequest)
	}
	snap, err := s.roster.Fetch(ctx)
	if err != nil {
		s.logger.Warn(ctx, "resync fetch failed", logger.Error(err))
		return types.ResyncReport{}, fmt.Errorf("%w: %w", ErrTransient, err)
	}

	report := types.ResyncReport{DatasetTeams: len(snap)}
	_, err = s.update(ctx, func(state *model.LeagueState) error {
		report.Synced, report.Created = 0, 0
		repository.ApplySnapshot(state, snap)

		for _, owner := range state.Owners() {
			team := state.Teams[owner]
			ext, ok := state.External[team.Key]
			if !ok {
				continue
			}
			team.Name = ext.DisplayName(team.Key)
			team.Roster = ext.Entries(s.season)
			workflow.Recompute(team, s.season, s.thresholds)
			report.Synced++
		}

		keys := resolve.Keys(state.External)
		sort.Strings(keys)
		for _, key := range keys {
			ext := state.External[key]
			gm := string(ext.GM)
			if gm == "" || state.Teams[gm] != nil {
				continue
			}
			if owner, _ := state.TeamByKey(key); owner != "" {
				continue
			}
			team := &model.Team{Key: key, Name: ext.DisplayName(key), GM: gm, Roster: ext.Entries(s.season)}
			workflow.Recompute(team, s.season, s.thresholds)
			state.Teams[gm] = team
			report.Created++
		}
		return nil
	})
	if err != nil {
		return types.ResyncReport{}, err
	}

	s.logger.Info(ctx, "league data resynced",
		logger.Int("dataset_teams", report.DatasetTeams),
		logger.Int("synced", report.Synced),
		logger.Int("created", report.Created))
	return report, nil
}

// ProvisionTeamChannels ensures one channel per registered team. Per-team
// failures are reported, not fatal.
func (s *Service) ProvisionTeamChannels(ctx context.Context) (types.ProvisionReport, error) {
	state, err := s.load(ctx)
	if err != nil {
		return types.ProvisionReport{}, err
	}

	report := types.ProvisionReport{Created: []string{}, Existing: []string{}}
	for _, owner := range state.Owners() {
		team := state.Teams[owner]
		ch, created, err := s.provisioner.Ensure(ctx, s.teamCategory, team.Key, team.Name)
		switch {
		case err != nil:
			if report.Failed == nil {
				report.Failed = map[string]string{}
			}
			report.Failed[team.Key] = err.Error()
			s.logger.Warn(ctx, "channel provisioning failed", logger.String("team", team.Key), logger.Error(err))
		case created:
			report.Created = append(report.Created, ch.Name)
		default:
			report.Existing = append(report.Existing, ch.Name)
		}
	}

	if len(report.Failed) > 0 && len(report.Created)+len(report.Existing) == 0 {
		errs := make([]error, 0, len(report.Failed))
		for key, msg := range report.Failed {
			errs = append(errs, fmt.Errorf("%s: %s", key, msg))
		}
		return report, fmt.Errorf("%w: no channel could be provisioned: %w", ErrTransient, errors.Join(errs...))
	}
	s.logger.Info(ctx, "team channels provisioned",
		logger.Int("created", len(report.Created)),
		logger.Int("existing", len(report.Existing)),
		logger.Int("failed", len(report.Failed)))
	return report, nil
}
