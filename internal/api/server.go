// Package api exposes the learning core over HTTP as a JSON API. Callers
// identify their account with the X-Account-ID header; there is no
// authentication layer in front of it.
package api

import (
	"github.com/hsaleh/murajaa/internal/db"
	"github.com/hsaleh/murajaa/internal/services"
	"github.com/hsaleh/murajaa/internal/session"
)

type Server struct {
	DB          *db.DB
	Accounts    services.AccountService
	Decks       services.DeckService
	Scenarios   services.ScenarioService
	Rewards     services.RewardService
	Stats       services.StatsService
	Coordinator *session.Coordinator
	SessionSize int
}
