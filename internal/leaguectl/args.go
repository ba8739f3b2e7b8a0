package leaguectl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
	"github.com/shopspring/decimal"
)

// ParseArgs turns key=value pairs into command arguments. List keys take a
// comma separated value; money keys take a decimal in millions.
func ParseArgs(pairs []string) (gateway.Args, error) {
	var args gateway.Args
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return gateway.Args{}, fmt.Errorf("%w: %q is not key=value", ErrBadArgument, pair)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "name":
			args.Name = value
		case "team":
			args.Team = value
		case "player":
			args.Player = value
		case "justification":
			args.Justification = value
		case "counterparty":
			args.Counterparty = value
		case "status":
			args.Status = value
		case "proposal":
			args.Proposal = value
		case "token":
			args.Token = value
		case "verdict":
			args.Verdict = value
		case "outgoing":
			args.Outgoing = splitList(value)
		case "incoming":
			args.Incoming = splitList(value)
		case "years":
			args.Years, err = strconv.Atoi(value)
		case "amount":
			args.Amount, err = parseMoney(value)
		case "outgoing_salary":
			args.OutgoingSalary, err = parseMoney(value)
		case "incoming_salary":
			args.IncomingSalary, err = parseMoney(value)
		default:
			return gateway.Args{}, fmt.Errorf("%w: unknown key %q", ErrBadArgument, key)
		}
		if err != nil {
			return gateway.Args{}, fmt.Errorf("%w: %s: %w", ErrBadArgument, key, err)
		}
	}
	return args, nil
}

func parseMoney(v string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimPrefix(v, "$"), "M"))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
