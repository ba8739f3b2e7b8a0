package repository_test

import (
	"encoding/json"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
)

func mustJSON(s *model.LeagueState) string {
	out, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return string(out)
}
