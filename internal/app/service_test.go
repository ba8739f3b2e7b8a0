package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/notify"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/provision"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/repository"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/rostersource"
	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/capmath"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/types"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const season = "2025-26"

var (
	bucksGM  = service.Actor{ID: "100"}
	lakersGM = service.Actor{ID: "200"}
	commish  = service.Actor{ID: "999", Roles: []string{"Commissioner"}}
	fixedNow = time.Date(2025, 11, 2, 20, 0, 0, 0, time.UTC)
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func dp(v string) *decimal.Decimal {
	x := d(v)
	return &x
}

func player(name string, salary model.Salary) model.Player {
	return model.Player{Name: name, Salaries: map[string]model.Salary{season: salary}}
}

// dataset: Bucks 170 (over soft 160), Lakers 80, Celtics 210 (over hard 200).
func dataset() model.Snapshot {
	return model.Snapshot{
		"MILWAUKEE BUCKS": {Name: "Milwaukee Bucks", Roster: []model.Player{
			player("Giannis", model.FixedFloat(100)),
			player("Dame", model.FixedFloat(50)),
			player("Bobby", model.FixedFloat(20)),
			player("Prospect", model.RestrictedFreeAgent()),
		}},
		"LOS ANGELES LAKERS": {Name: "Los Angeles Lakers", Roster: []model.Player{
			player("LeBron", model.FixedFloat(45)),
			player("AD", model.FixedFloat(26)),
			player("Reaves", model.FixedFloat(9)),
		}},
		"BOSTON CELTICS": {Name: "Boston Celtics", GM: "300", Roster: []model.Player{
			player("Tatum", model.FixedFloat(110)),
			player("Brown", model.FixedFloat(100)),
		}},
		"NY BUCKANEERS": {Name: "NY Buckaneers"},
	}
}

type fixture struct {
	svc   *service.Service
	store *repository.MemoryStore
	feed  *notify.Feed
	src   *rostersource.Static
}

func newFixture(extra ...service.Option) *fixture {
	f := &fixture{
		store: repository.NewMemoryStore(),
		feed:  notify.NewFeed(0),
		src:   &rostersource.Static{Snapshot: dataset()},
	}
	opts := []service.Option{
		service.WithStore(f.store),
		service.WithNotifier(f.feed),
		service.WithRosterSource(f.src),
		service.WithThresholds(capmath.Thresholds{Floor: d("120"), SoftCap: d("160"), HardCap: d("200")}),
		service.WithSeason(season),
		service.WithAliases(map[string]string{"bucks": "BUCKS", "la": "LAKERS"}),
		service.WithChannels("approvals", "public"),
		service.WithClock(func() time.Time { return fixedNow }),
	}
	f.svc = service.New(append(opts, extra...)...)
	So(repository.SyncFromRosterSource(context.Background(), f.store, dataset()), ShouldBeNil)
	return f
}

func (f *fixture) registerBoth(ctx context.Context) {
	_, err := f.svc.RegisterTeam(ctx, bucksGM, "milwaukee bucks")
	So(err, ShouldBeNil)
	_, err = f.svc.RegisterTeam(ctx, lakersGM, "LA")
	So(err, ShouldBeNil)
}

func TestRegisterTeam(t *testing.T) {
	ctx := context.Background()

	Convey("Given a league with a cached dataset", t, func() {
		f := newFixture()

		Convey("When a GM registers a dataset franchise by name", func() {
			team, err := f.svc.RegisterTeam(ctx, bucksGM, "milwaukee bucks")

			Convey("Then the canonical key is claimed and the roster seeded", func() {
				So(err, ShouldBeNil)
				So(team.Key, ShouldEqual, "MILWAUKEE BUCKS")
				So(team.Name, ShouldEqual, "Milwaukee Bucks")
				So(team.Roster, ShouldHaveLength, 4)
				So(team.CapSpace.Equal(d("-10")), ShouldBeTrue)
			})

			Convey("Then a second registration by the same GM conflicts", func() {
				_, err := f.svc.RegisterTeam(ctx, bucksGM, "Lakers")
				So(service.KindOf(err), ShouldEqual, service.KindConflict)
			})

			Convey("Then another GM cannot claim the same franchise", func() {
				_, err := f.svc.RegisterTeam(ctx, lakersGM, "Bucks")
				So(errors.Is(err, service.ErrConflict), ShouldBeTrue)
			})
		})

		Convey("When a GM registers a nickname outside the dataset", func() {
			team, err := f.svc.RegisterTeam(ctx, bucksGM, "Sonics")

			Convey("Then it is an empty franchise with full cap space", func() {
				So(err, ShouldBeNil)
				So(team.Key, ShouldEqual, "Sonics")
				So(team.Roster, ShouldBeEmpty)
				So(team.CapSpace.Equal(d("160")), ShouldBeTrue)
			})
		})

		Convey("When a nickname only occurs inside a dataset franchise name", func() {
			team, err := f.svc.RegisterTeam(ctx, service.Actor{ID: "999"}, "Kers")

			Convey("Then it is a new empty franchise, not the dataset team", func() {
				So(err, ShouldBeNil)
				So(team.Key, ShouldEqual, "Kers")
				So(team.Roster, ShouldBeEmpty)

				lakers, err := f.svc.RegisterTeam(ctx, lakersGM, "LA")
				So(err, ShouldBeNil)
				So(lakers.Key, ShouldEqual, "LOS ANGELES LAKERS")
			})
		})

		Convey("When the name is blank", func() {
			_, err := f.svc.RegisterTeam(ctx, bucksGM, "  ")
			So(service.KindOf(err), ShouldEqual, service.KindBadRequest)
		})
	})
}

func TestShowTeamAndRoster(t *testing.T) {
	ctx := context.Background()

	Convey("Given two registered teams", t, func() {
		f := newFixture()
		f.registerBoth(ctx)

		Convey("When the Bucks GM shows their team", func() {
			sum, err := f.svc.ShowTeam(ctx, bucksGM)

			Convey("Then payroll, band and bar are reported", func() {
				So(err, ShouldBeNil)
				So(sum.Payroll.Equal(d("170")), ShouldBeTrue)
				So(sum.Status, ShouldEqual, string(capmath.OverSoftCap))
				So(sum.Players, ShouldEqual, 4)
				So(sum.CapBar, ShouldEndWith, "106%")
			})
		})

		Convey("When an unregistered user shows their team", func() {
			_, err := f.svc.ShowTeam(ctx, service.Actor{ID: "nobody"})
			So(service.KindOf(err), ShouldEqual, service.KindNotFound)
		})

		Convey("When rosters are shown by GM id, by team name and from the dataset", func() {
			own, err := f.svc.ShowRoster(ctx, bucksGM, "")
			So(err, ShouldBeNil)
			byID, err := f.svc.ShowRoster(ctx, bucksGM, lakersGM.ID)
			So(err, ShouldBeNil)
			ds, err := f.svc.ShowRoster(ctx, bucksGM, "celtics")
			So(err, ShouldBeNil)

			Convey("Then each resolves to the right roster", func() {
				So(own.Key, ShouldEqual, "MILWAUKEE BUCKS")
				So(own.Lines[3].Salary, ShouldEqual, "RFA")
				So(byID.Team, ShouldEqual, "Los Angeles Lakers")
				So(byID.Source, ShouldEqual, types.SourceLocal)
				So(ds.Source, ShouldEqual, types.SourceDataset)
				So(ds.Payroll.Equal(d("210")), ShouldBeTrue)
			})
		})

		Convey("When a roster target matches nothing", func() {
			_, err := f.svc.ShowRoster(ctx, bucksGM, "Sonics")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestSignAndCut(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registered team", t, func() {
		f := newFixture()
		f.registerBoth(ctx)

		Convey("When a free agent signing is requested", func() {
			out, err := f.svc.SignFreeAgent(ctx, lakersGM, service.SignRequest{Player: "Free Agent", Amount: d("5"), Years: 2, Justification: "depth"})

			Convey("Then a proposed record is posted with cap context and no actions", func() {
				So(err, ShouldBeNil)
				So(out.Delivered, ShouldBeTrue)
				So(out.Transaction.Kind, ShouldEqual, model.KindSign)
				So(out.Transaction.Status, ShouldEqual, model.StatusProposed)
				msgs := f.feed.Messages("approvals")
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Actions, ShouldBeEmpty)
				So(msgs[0].Text, ShouldContainSubstring, "after signing $75M")
				So(msgs[0].Text, ShouldContainSubstring, "Justification: depth")
			})

			Convey("Then it cannot be resolved with the trade action", func() {
				_, err := f.svc.ResolveProposal(ctx, commish, out.Transaction.ID, "", "accept")
				So(service.KindOf(err), ShouldEqual, service.KindForbidden)
			})
		})

		Convey("When the amount is negative", func() {
			_, err := f.svc.SignFreeAgent(ctx, lakersGM, service.SignRequest{Player: "X", Amount: d("-1")})
			So(service.KindOf(err), ShouldEqual, service.KindBadRequest)
		})

		Convey("When a rostered player is cut", func() {
			out, err := f.svc.CutPlayer(ctx, lakersGM, service.CutRequest{Player: "reaves"})
			So(err, ShouldBeNil)
			So(out.Transaction.Player, ShouldEqual, "Reaves")
			So(f.feed.Messages("approvals")[0].Text, ShouldContainSubstring, "after release $89M")
		})

		Convey("When an unknown player is cut", func() {
			_, err := f.svc.CutPlayer(ctx, lakersGM, service.CutRequest{Player: "Nobody"})
			So(service.KindOf(err), ShouldEqual, service.KindNotFound)
			txs, _ := f.svc.ListTransactions(ctx, "")
			So(txs, ShouldBeEmpty)
		})
	})
}

func TestProposeTrade(t *testing.T) {
	ctx := context.Background()

	Convey("Given the Bucks over the soft cap at 170", t, func() {
		f := newFixture()
		f.registerBoth(ctx)

		Convey("When they take back exactly 130% of outgoing salary", func() {
			out, err := f.svc.ProposeTrade(ctx, bucksGM, service.TradeProposal{
				Counterparty: "Lakers", Outgoing: []string{"bobby"}, Incoming: []string{"AD"},
			})

			Convey("Then the proposal is recorded with derived salaries and an action pair", func() {
				So(err, ShouldBeNil)
				tx := out.Transaction
				So(tx.Status, ShouldEqual, model.StatusProposed)
				So(tx.Counterparty, ShouldEqual, lakersGM.ID)
				So(tx.Outgoing, ShouldResemble, []string{"Bobby"})
				So(tx.OutgoingSalary.Equal(d("20")), ShouldBeTrue)
				So(tx.IncomingSalary.Equal(d("26")), ShouldBeTrue)
				msgs := f.feed.Messages("approvals")
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Actions, ShouldHaveLength, 2)
				So(msgs[0].Actions[0].Token, ShouldEqual, tx.ActionToken)
			})
		})

		Convey("When supplied figures breach the apron by a cent", func() {
			_, err := f.svc.ProposeTrade(ctx, bucksGM, service.TradeProposal{
				Counterparty: lakersGM.ID, Outgoing: []string{"Bobby"}, Incoming: []string{"AD"},
				OutgoingSalary: dp("20"), IncomingSalary: dp("26.01"),
			})

			Convey("Then the violation is reported and no record exists", func() {
				So(service.KindOf(err), ShouldEqual, service.KindCapViolation)
				So(err.Error(), ShouldContainSubstring, "$26.01M")
				txs, _ := f.svc.ListTransactions(ctx, "")
				So(txs, ShouldBeEmpty)
				So(f.feed.Messages("approvals"), ShouldBeEmpty)
			})
		})

		Convey("When a named player is not on the counterparty roster", func() {
			_, err := f.svc.ProposeTrade(ctx, bucksGM, service.TradeProposal{
				Counterparty: "Lakers", Outgoing: []string{"Bobby"}, Incoming: []string{"Kobe"},
			})
			So(service.KindOf(err), ShouldEqual, service.KindNotFound)
		})

		Convey("When the counterparty is unknown or is the proposer", func() {
			_, err := f.svc.ProposeTrade(ctx, bucksGM, service.TradeProposal{Counterparty: "Sonics", Outgoing: []string{"Bobby"}})
			So(service.KindOf(err), ShouldEqual, service.KindNotFound)
			_, err = f.svc.ProposeTrade(ctx, bucksGM, service.TradeProposal{Counterparty: "Bucks", Outgoing: []string{"Bobby"}})
			So(service.KindOf(err), ShouldEqual, service.KindBadRequest)
		})
	})

	Convey("Given a team over the hard cap", t, func() {
		f := newFixture()
		_, err := f.svc.ResyncLeagueData(ctx)
		So(err, ShouldBeNil)
		f.registerBoth(ctx)
		celtics := service.Actor{ID: "300"}

		Convey("When it would add a cent of payroll", func() {
			_, err := f.svc.ProposeTrade(ctx, celtics, service.TradeProposal{
				Counterparty: "Lakers", Outgoing: []string{"Brown"}, Incoming: []string{"LeBron"},
				OutgoingSalary: dp("10"), IncomingSalary: dp("10.01"),
			})
			So(errors.Is(err, service.ErrCapViolation), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "hard cap")
		})

		Convey("When salaries match", func() {
			_, err := f.svc.ProposeTrade(ctx, celtics, service.TradeProposal{
				Counterparty: "Lakers", Outgoing: []string{"Brown"}, Incoming: []string{"LeBron"},
				OutgoingSalary: dp("10"), IncomingSalary: dp("10"),
			})
			So(err, ShouldBeNil)
		})
	})
}

func TestResolveProposal(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pending trade", t, func() {
		f := newFixture()
		f.registerBoth(ctx)
		out, err := f.svc.ProposeTrade(ctx, bucksGM, service.TradeProposal{
			Counterparty: "Lakers", Outgoing: []string{"Bobby"}, Incoming: []string{"AD"},
		})
		So(err, ShouldBeNil)
		tx := out.Transaction

		Convey("When the approver accepts", func() {
			res, err := f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "accept")

			Convey("Then players move, cap space follows and one announcement is made", func() {
				So(err, ShouldBeNil)
				So(res.Transaction.Status, ShouldEqual, model.StatusCompleted)
				So(res.Transaction.ResolvedBy, ShouldEqual, commish.ID)
				So(res.Delivered, ShouldBeTrue)
				bucks, _ := f.svc.ShowTeam(ctx, bucksGM)
				So(bucks.CapSpace.Equal(d("-16")), ShouldBeTrue)
				lakers, _ := f.svc.ShowTeam(ctx, lakersGM)
				So(lakers.CapSpace.Equal(d("86")), ShouldBeTrue)
				msgs := f.feed.Messages("public")
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Text, ShouldContainSubstring, "Milwaukee Bucks send Bobby to Los Angeles Lakers")
			})

			Convey("Then a later reject or accept is a no-op without a second announcement", func() {
				_, err := f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "reject")
				So(service.KindOf(err), ShouldEqual, service.KindConflict)
				_, err = f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "accept")
				So(service.KindOf(err), ShouldEqual, service.KindConflict)
				txs, _ := f.svc.ListTransactions(ctx, "completed")
				So(txs, ShouldHaveLength, 1)
				So(f.feed.Messages("public"), ShouldHaveLength, 1)
			})
		})

		Convey("When accept and reject race", func() {
			var wg sync.WaitGroup
			errs := make([]error, 8)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					verdict := "accept"
					if i%2 == 1 {
						verdict = "reject"
					}
					_, errs[i] = f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, verdict)
				}(i)
			}
			wg.Wait()

			Convey("Then exactly one takes effect", func() {
				wins := 0
				for _, err := range errs {
					if err == nil {
						wins++
					} else {
						So(service.KindOf(err), ShouldEqual, service.KindConflict)
					}
				}
				So(wins, ShouldEqual, 1)
				pending, _ := f.svc.ListTransactions(ctx, "proposed")
				So(pending, ShouldBeEmpty)
			})
		})

		Convey("When the approver rejects", func() {
			res, err := f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "REJECT")
			So(err, ShouldBeNil)
			So(res.Transaction.Status, ShouldEqual, model.StatusRejected)
			So(f.feed.Messages("public"), ShouldBeEmpty)
			roster, _ := f.svc.ShowRoster(ctx, bucksGM, "")
			So(roster.Lines, ShouldHaveLength, 4)
		})

		Convey("When a GM without the role tries to resolve", func() {
			_, err := f.svc.ResolveProposal(ctx, lakersGM, tx.ID, tx.ActionToken, "accept")
			So(service.KindOf(err), ShouldEqual, service.KindForbidden)
		})

		Convey("When the token is wrong", func() {
			_, err := f.svc.ResolveProposal(ctx, commish, tx.ID, "forged", "accept")
			So(service.KindOf(err), ShouldEqual, service.KindForbidden)
		})

		Convey("When the verdict or id is unknown", func() {
			_, err := f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "maybe")
			So(service.KindOf(err), ShouldEqual, service.KindBadRequest)
			_, err = f.svc.ResolveProposal(ctx, commish, "missing", tx.ActionToken, "accept")
			So(service.KindOf(err), ShouldEqual, service.KindNotFound)
		})

		Convey("When a traded player is cut before acceptance", func() {
			state, err := f.store.Load(ctx)
			So(err, ShouldBeNil)
			lakers := state.Teams[lakersGM.ID]
			lakers.Roster = lakers.Roster[:1]
			So(f.store.Save(ctx, state), ShouldBeNil)

			_, err = f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "accept")

			Convey("Then the resolution aborts and the action stays usable", func() {
				So(service.KindOf(err), ShouldEqual, service.KindInvariant)
				pending, _ := f.svc.ListTransactions(ctx, "proposed")
				So(pending, ShouldHaveLength, 1)
				res, err := f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "reject")
				So(err, ShouldBeNil)
				So(res.Transaction.Status, ShouldEqual, model.StatusRejected)
			})
		})

		Convey("When the counterparty accepts through accept-trade", func() {
			res, err := f.svc.AcceptTrade(ctx, lakersGM)
			So(err, ShouldBeNil)
			So(res.Transaction.ID, ShouldEqual, tx.ID)
			So(res.Transaction.Status, ShouldEqual, model.StatusCompleted)

			_, err = f.svc.AcceptTrade(ctx, lakersGM)
			So(service.KindOf(err), ShouldEqual, service.KindConflict)
			_, err = f.svc.ResolveProposal(ctx, commish, tx.ID, tx.ActionToken, "reject")
			So(service.KindOf(err), ShouldEqual, service.KindConflict)
		})
	})
}

type brokenNotifier struct{}

func (brokenNotifier) RequestApproval(context.Context, notify.Approval) error {
	return errors.New("channel missing")
}
func (brokenNotifier) Announce(context.Context, string, string) error { return errors.New("channel missing") }

func TestDeliveryFailures(t *testing.T) {
	ctx := context.Background()

	Convey("Given a notifier that cannot post", t, func() {
		f := newFixture(service.WithNotifier(brokenNotifier{}))
		f.registerBoth(ctx)

		out, err := f.svc.ProposeTrade(ctx, bucksGM, service.TradeProposal{
			Counterparty: "Lakers", Outgoing: []string{"Bobby"}, Incoming: []string{"Reaves"},
		})

		Convey("Then the record stays and the failure is surfaced", func() {
			So(err, ShouldBeNil)
			So(out.Delivered, ShouldBeFalse)
			So(out.DeliveryError, ShouldContainSubstring, "channel missing")

			res, err := f.svc.ResolveProposal(ctx, commish, out.Transaction.ID, out.Transaction.ActionToken, "accept")
			So(err, ShouldBeNil)
			So(res.Transaction.Status, ShouldEqual, model.StatusCompleted)
			So(res.Delivered, ShouldBeFalse)
		})
	})
}

func TestResyncAndAvailability(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registered team and a changed dataset", t, func() {
		f := newFixture()
		f.registerBoth(ctx)
		snap := dataset()
		lakers := snap["LOS ANGELES LAKERS"]
		lakers.Roster = lakers.Roster[:2]
		snap["LOS ANGELES LAKERS"] = lakers
		f.src.Snapshot = snap

		Convey("When league data is resynced", func() {
			report, err := f.svc.ResyncLeagueData(ctx)

			Convey("Then claimed teams are re-seeded and dataset GMs get teams", func() {
				So(err, ShouldBeNil)
				So(report.DatasetTeams, ShouldEqual, 4)
				So(report.Synced, ShouldEqual, 2)
				So(report.Created, ShouldEqual, 1)
				sum, _ := f.svc.ShowTeam(ctx, lakersGM)
				So(sum.Players, ShouldEqual, 2)
				So(sum.CapSpace.Equal(d("89")), ShouldBeTrue)
				_, err := f.svc.ShowTeam(ctx, service.Actor{ID: "300"})
				So(err, ShouldBeNil)
			})

			Convey("Then a second identical resync leaves the document unchanged", func() {
				first, _ := f.store.Load(ctx)
				again, err := f.svc.ResyncLeagueData(ctx)
				So(err, ShouldBeNil)
				So(again.Created, ShouldEqual, 0)
				second, _ := f.store.Load(ctx)
				So(second.External, ShouldResemble, first.External)
				So(len(second.Teams), ShouldEqual, len(first.Teams))
			})

			Convey("Then only unclaimed franchises are available", func() {
				avail, err := f.svc.ListAvailableTeams(ctx)
				So(err, ShouldBeNil)
				So(avail, ShouldHaveLength, 1)
				So(avail[0].Key, ShouldEqual, "NY BUCKANEERS")
			})
		})

		Convey("When the dataset cannot be fetched", func() {
			f.src.Err = rostersource.ErrFetch
			_, err := f.svc.ResyncLeagueData(ctx)
			So(service.KindOf(err), ShouldEqual, service.KindTransient)
		})
	})

	Convey("Given no roster source", t, func() {
		svc := service.New()
		_, err := svc.ResyncLeagueData(ctx)
		So(service.KindOf(err), ShouldEqual, service.KindBadRequest)
	})
}

func TestProvisionTeamChannels(t *testing.T) {
	ctx := context.Background()

	Convey("Given two registered teams", t, func() {
		reg := provision.NewRegistry(provision.WithLimit(1))
		f := newFixture(service.WithProvisioner(reg), service.WithTeamCategory("Teams"))
		f.registerBoth(ctx)

		report, err := f.svc.ProvisionTeamChannels(ctx)

		Convey("Then one channel is created and the category limit is reported per team", func() {
			So(err, ShouldBeNil)
			So(report.Created, ShouldResemble, []string{"milwaukee-bucks"})
			So(report.Failed, ShouldContainKey, "LOS ANGELES LAKERS")
		})

		Convey("Then a second run finds the existing channel", func() {
			again, err := f.svc.ProvisionTeamChannels(ctx)
			So(err, ShouldBeNil)
			So(again.Existing, ShouldResemble, []string{"milwaukee-bucks"})
		})
	})
}

func TestKindOf(t *testing.T) {
	Convey("KindOf maps nil and unknown errors", t, func() {
		So(service.KindOf(nil), ShouldEqual, service.KindNone)
		So(service.KindOf(errors.New("disk on fire")), ShouldEqual, service.KindInternal)
		So(service.KindOf(rostersource.ErrFetch), ShouldEqual, service.KindTransient)
	})
}
