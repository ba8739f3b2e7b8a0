package gateway

import (
	"fmt"
	"strings"

	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/types"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2) + "M"
}

// failureText prefixes the cause with a short headline for its kind.
func failureText(kind service.Kind, err error) string {
	head := map[service.Kind]string{
		service.KindNotFound:     "Not found",
		service.KindConflict:     "Conflict",
		service.KindCapViolation: "Trade refused",
		service.KindTransient:    "External service unavailable",
		service.KindInvariant:    "Resolution aborted",
		service.KindForbidden:    "Not allowed",
		service.KindBadRequest:   "Invalid request",
	}[kind]
	if head == "" {
		head = "Something went wrong"
	}
	return head + ": " + err.Error()
}

func registeredText(team *model.Team) string {
	return fmt.Sprintf("%s registered %s (%d players, cap space %s).",
		team.GM, team.Name, len(team.Roster), money(team.CapSpace))
}

func teamText(s types.TeamSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", s.Name, s.Key)
	fmt.Fprintf(&b, "Payroll %s, cap space %s, %d players\n", money(s.Payroll), money(s.CapSpace), s.Players)
	fmt.Fprintf(&b, "Status: %s\n", s.Status)
	b.WriteString(s.CapBar)
	return b.String()
}

func rosterText(v types.RosterView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s roster (%s, %s)\n", v.Team, v.Season, v.Source)
	if len(v.Lines) == 0 {
		b.WriteString("No players.\n")
	}
	for _, l := range v.Lines {
		b.WriteString("- " + l.Name)
		if l.Position != "" {
			b.WriteString(" " + l.Position)
		}
		if l.Overall > 0 {
			fmt.Fprintf(&b, " %d", l.Overall)
		}
		b.WriteString(": " + l.Salary + "\n")
	}
	fmt.Fprintf(&b, "Payroll %s", money(v.Payroll))
	return b.String()
}

func proposalText(tx model.Transaction) string {
	return fmt.Sprintf("Trade %s sent for approval: %s to %s, %s back (%s out, %s in).",
		tx.ID, names(tx.Outgoing), tx.CounterpartyTeam, names(tx.Incoming),
		money(tx.OutgoingSalary), money(tx.IncomingSalary))
}

func resolvedText(tx model.Transaction) string {
	return fmt.Sprintf("Trade %s between %s and %s is %s.", tx.ID, tx.Team, tx.CounterpartyTeam, tx.Status)
}

func transactionsText(txs []model.Transaction) string {
	if len(txs) == 0 {
		return "No transactions."
	}
	lines := make([]string, len(txs))
	for i, tx := range txs {
		var what string
		switch tx.Kind {
		case model.KindTrade:
			what = fmt.Sprintf("%s <-> %s: %s for %s", tx.Team, tx.CounterpartyTeam, names(tx.Outgoing), names(tx.Incoming))
		case model.KindSign:
			amount := "-"
			if tx.Amount != nil {
				amount = money(*tx.Amount)
			}
			what = fmt.Sprintf("%s signs %s for %s", tx.Team, tx.Player, amount)
		default:
			what = fmt.Sprintf("%s cuts %s", tx.Team, tx.Player)
		}
		lines[i] = fmt.Sprintf("%s [%s %s] %s", tx.ID, tx.Kind, tx.Status, what)
	}
	return strings.Join(lines, "\n")
}

func availableText(teams []types.AvailableTeam) string {
	if len(teams) == 0 {
		return "Every franchise has been claimed."
	}
	lines := make([]string, 0, len(teams)+1)
	lines = append(lines, fmt.Sprintf("%d franchises available:", len(teams)))
	for _, t := range teams {
		lines = append(lines, fmt.Sprintf("- %s (%d players)", t.Name, t.Players))
	}
	return strings.Join(lines, "\n")
}

func resyncText(r types.ResyncReport) string {
	return fmt.Sprintf("League data synced: %d dataset teams, %d registered teams refreshed, %d created.",
		r.DatasetTeams, r.Synced, r.Created)
}

func provisionText(r types.ProvisionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Channels created: %d, already present: %d", len(r.Created), len(r.Existing))
	for key, msg := range r.Failed {
		fmt.Fprintf(&b, "\nFailed for %s: %s", key, msg)
	}
	return b.String()
}

func names(list []string) string {
	if len(list) == 0 {
		return "nothing"
	}
	return strings.Join(list, ", ")
}
