package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[CreateAccountMessage]  = (*CreateAccountCommand)(nil)
	_ gocmd.Commander[ReceiveWebhookMessage] = (*ReceiveWebhookCommand)(nil)
)
