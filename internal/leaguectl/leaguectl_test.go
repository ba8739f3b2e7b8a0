package leaguectl_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/leaguectl"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fakeAPI mimics the command API: show-team answers at once, propose-trade
// defers and completes on the second poll, resync never completes.
type fakeAPI struct {
	polls    atomic.Int32
	mu       sync.Mutex
	lastArgs gateway.Args
	lastUser string
	lastRole string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /commands/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastUser = r.Header.Get("X-User-ID")
		f.lastRole = r.Header.Get("X-User-Roles")
		_ = json.NewDecoder(r.Body).Decode(&f.lastArgs)
		f.mu.Unlock()

		switch name := r.PathValue("name"); name {
		case gateway.CmdShowTeam:
			writeJSON(w, http.StatusOK, gateway.Interaction{
				ID: "it-1", Command: name, Done: true,
				Messages: []gateway.Reply{{Visibility: gateway.Ephemeral, Text: "Bucks payroll $150.00M"}},
			})
		case gateway.CmdProposeTrade, gateway.CmdResyncLeagueData:
			writeJSON(w, http.StatusAccepted, gateway.Interaction{
				ID: "it-" + name, Command: name,
				Messages: []gateway.Reply{{Visibility: gateway.Ephemeral, Text: "Checking rosters...", Deferred: true}},
			})
		case gateway.CmdCutPlayer:
			writeJSON(w, http.StatusNotFound, gateway.Interaction{
				ID: "it-cut", Command: name, Done: true,
				Messages: []gateway.Reply{{Visibility: gateway.Ephemeral, Text: "Not found: no such player", Kind: service.KindNotFound}},
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "unknown_command", "message": "unknown command"})
		}
	})
	mux.HandleFunc("POST /proposals/{id}/{verdict}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok" {
			writeJSON(w, http.StatusForbidden, gateway.Interaction{
				ID: "it-deny", Command: gateway.CmdResolveProposal, Done: true,
				Messages: []gateway.Reply{{Visibility: gateway.Ephemeral, Text: "Not allowed", Kind: service.KindForbidden}},
			})
			return
		}
		writeJSON(w, http.StatusOK, gateway.Interaction{
			ID: "it-resolve", Command: gateway.CmdResolveProposal, Done: true,
			Messages: []gateway.Reply{{Visibility: gateway.Public, Text: r.PathValue("id") + " " + r.PathValue("verdict")}},
		})
	})
	mux.HandleFunc("GET /interactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		it := gateway.Interaction{ID: id, Messages: []gateway.Reply{{Text: "Checking rosters...", Deferred: true}}}
		if id == "it-"+gateway.CmdProposeTrade && f.polls.Add(1) >= 2 {
			it.Done = true
			it.Messages = append(it.Messages, gateway.Reply{Visibility: gateway.Ephemeral, Text: "Trade sent for approval"})
		}
		writeJSON(w, http.StatusOK, it)
	})
	return mux
}

func (f *fakeAPI) last() (gateway.Args, string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastArgs, f.lastUser, f.lastRole
}

func TestParseArgs(t *testing.T) {
	Convey("Given key=value pairs", t, func() {
		Convey("When they are well formed", func() {
			args, err := leaguectl.ParseArgs([]string{
				"counterparty=la",
				"outgoing=Bobby Portis, Pat Connaughton",
				"incoming=Austin Reaves",
				"outgoing_salary=$12.5M",
				"years=2",
			})
			So(err, ShouldBeNil)
			So(args.Counterparty, ShouldEqual, "la")
			So(args.Outgoing, ShouldResemble, []string{"Bobby Portis", "Pat Connaughton"})
			So(args.Incoming, ShouldResemble, []string{"Austin Reaves"})
			So(args.OutgoingSalary.String(), ShouldEqual, "12.5")
			So(args.Years, ShouldEqual, 2)
			So(args.Amount, ShouldBeNil)
		})

		Convey("When a pair has no equals sign", func() {
			_, err := leaguectl.ParseArgs([]string{"bucks"})
			So(errors.Is(err, leaguectl.ErrBadArgument), ShouldBeTrue)
		})

		Convey("When a key is unknown", func() {
			_, err := leaguectl.ParseArgs([]string{"colour=green"})
			So(errors.Is(err, leaguectl.ErrBadArgument), ShouldBeTrue)
		})

		Convey("When an amount is not a number", func() {
			_, err := leaguectl.ParseArgs([]string{"amount=lots"})
			So(errors.Is(err, leaguectl.ErrBadArgument), ShouldBeTrue)
		})
	})
}

func TestSplitRoles(t *testing.T) {
	Convey("Given a role list with blanks", t, func() {
		So(leaguectl.SplitRoles(" Admin, ,Scout "), ShouldResemble, []string{"Admin", "Scout"})
		So(leaguectl.SplitRoles(""), ShouldBeNil)
	})
}

func TestClient(t *testing.T) {
	Convey("Given a running command API", t, func() {
		api := &fakeAPI{}
		srv := httptest.NewServer(api.handler())
		defer srv.Close()

		cfg := leaguectl.Config{
			BaseURL:      srv.URL + "/",
			User:         "100",
			Roles:        []string{"Admin"},
			Wait:         2 * time.Second,
			PollInterval: 5 * time.Millisecond,
		}
		client := leaguectl.NewClient(cfg)
		ctx := context.Background()

		Convey("When an immediate command runs", func() {
			it, err := client.Command(ctx, gateway.CmdShowTeam, gateway.Args{})

			Convey("Then the interaction comes back done with the identity headers sent", func() {
				So(err, ShouldBeNil)
				So(it.Done, ShouldBeTrue)
				So(it.Messages[0].Text, ShouldContainSubstring, "Bucks payroll")
				_, user, role := api.last()
				So(user, ShouldEqual, "100")
				So(role, ShouldEqual, "Admin")
			})
		})

		Convey("When a deferred command runs", func() {
			it, err := client.Command(ctx, gateway.CmdProposeTrade, gateway.Args{Counterparty: "la", Outgoing: []string{"A"}})

			Convey("Then the client polls until the follow-up arrives", func() {
				So(err, ShouldBeNil)
				So(it.Done, ShouldBeTrue)
				So(len(it.Messages), ShouldEqual, 2)
				So(api.polls.Load(), ShouldBeGreaterThanOrEqualTo, 2)
				args, _, _ := api.last()
				So(args.Counterparty, ShouldEqual, "la")
				So(args.Outgoing, ShouldResemble, []string{"A"})
			})
		})

		Convey("When the follow-up never arrives", func() {
			short := cfg
			short.Wait = 30 * time.Millisecond
			it, err := leaguectl.NewClient(short).Command(ctx, gateway.CmdResyncLeagueData, gateway.Args{})

			Convey("Then the pending interaction is returned with ErrStillPending", func() {
				So(errors.Is(err, leaguectl.ErrStillPending), ShouldBeTrue)
				So(it.Done, ShouldBeFalse)
				So(it.ID, ShouldEqual, "it-"+gateway.CmdResyncLeagueData)
			})
		})

		Convey("When an approval button is pressed", func() {
			it, err := client.Resolve(ctx, "p 1", "accept", "tok")
			So(err, ShouldBeNil)
			So(it.Messages[0].Text, ShouldEqual, "p 1 accept")

			denied, err := client.Resolve(ctx, "p 1", "accept", "wrong")
			So(err, ShouldBeNil)
			So(denied.Messages[0].Kind, ShouldEqual, service.KindForbidden)
		})

		Convey("When the command is unknown", func() {
			_, err := client.Command(ctx, "nope", gateway.Args{})

			Convey("Then the API error is surfaced", func() {
				var apiErr *leaguectl.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.Status, ShouldEqual, http.StatusNotFound)
				So(apiErr.Code, ShouldEqual, "unknown_command")
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running command API", t, func() {
		api := &fakeAPI{}
		srv := httptest.NewServer(api.handler())
		defer srv.Close()
		cfg := leaguectl.Config{BaseURL: srv.URL, User: "100", PollInterval: 5 * time.Millisecond}
		var out bytes.Buffer
		ctx := context.Background()

		Convey("When a command succeeds", func() {
			err := leaguectl.Run(ctx, cfg, leaguectl.Request{Command: gateway.CmdShowTeam}, &out)

			Convey("Then its reply is rendered", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "show-team · it-1")
				So(out.String(), ShouldContainSubstring, "Bucks payroll $150.00M")
				So(out.String(), ShouldContainSubstring, "only you can see this")
			})
		})

		Convey("When a command fails", func() {
			err := leaguectl.Run(ctx, cfg, leaguectl.Request{Command: gateway.CmdCutPlayer, Pairs: []string{"player=Nobody"}}, &out)

			Convey("Then the failure is rendered and an error returned", func() {
				So(err, ShouldNotBeNil)
				So(out.String(), ShouldContainSubstring, "Not found: no such player")
				args, _, _ := api.last()
				So(args.Player, ShouldEqual, "Nobody")
			})
		})

		Convey("When JSON output is requested", func() {
			cfg.JSON = true
			err := leaguectl.Run(ctx, cfg, leaguectl.Request{Command: gateway.CmdShowTeam}, &out)
			So(err, ShouldBeNil)

			var it gateway.Interaction
			So(json.Unmarshal(out.Bytes(), &it), ShouldBeNil)
			So(it.ID, ShouldEqual, "it-1")
		})

		Convey("When an interaction is looked up", func() {
			err := leaguectl.Run(ctx, cfg, leaguectl.Request{Interaction: "it-other"}, &out)

			Convey("Then the pending state is shown", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "still working")
			})
		})

		Convey("When the arguments are malformed", func() {
			err := leaguectl.Run(ctx, cfg, leaguectl.Request{Command: gateway.CmdShowRoster, Pairs: []string{"bucks"}}, &out)
			So(errors.Is(err, leaguectl.ErrBadArgument), ShouldBeTrue)
			So(out.Len(), ShouldEqual, 0)
		})

		Convey("When no command is given", func() {
			err := leaguectl.Run(ctx, cfg, leaguectl.Request{}, &out)
			So(errors.Is(err, leaguectl.ErrBadArgument), ShouldBeTrue)
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var out bytes.Buffer
		leaguectl.ShowHelp(&out)
		for _, cmd := range []string{
			gateway.CmdRegisterTeam, gateway.CmdShowRoster, gateway.CmdProposeTrade,
			gateway.CmdResolveProposal, gateway.CmdProvisionTeamChannels,
		} {
			So(out.String(), ShouldContainSubstring, cmd)
		}
	})
}
