package query

import (
	"github.com/goliatone/go-account-webhooks/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[GetAccountMessage, core.AccountView] = (*GetAccountQuery)(nil)
	_ gocmd.Querier[GetEventMessage, core.EventView]     = (*GetEventQuery)(nil)
)
