package accountwebhooks

import (
	"fmt"

	"github.com/goliatone/go-account-webhooks/adapters/gocommand"
	accountcommand "github.com/goliatone/go-account-webhooks/command"
	"github.com/goliatone/go-account-webhooks/core"
	accountquery "github.com/goliatone/go-account-webhooks/query"
	"github.com/goliatone/go-account-webhooks/webhooks"
)

type CommandQueryService interface {
	accountcommand.MutatingService
	accountquery.AccountReader
	accountquery.EventReader
}

type Commands struct {
	CreateAccount  *accountcommand.CreateAccountCommand
	ReceiveWebhook *accountcommand.ReceiveWebhookCommand
}

type Queries struct {
	GetAccount *accountquery.GetAccountQuery
	GetEvent   *accountquery.GetEventQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("accountwebhooks: command/query service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			CreateAccount:  accountcommand.NewCreateAccountCommand(service),
			ReceiveWebhook: accountcommand.NewReceiveWebhookCommand(service),
		},
		queries: Queries{
			GetAccount: accountquery.NewGetAccountQuery(service),
			GetEvent:   accountquery.NewGetEventQuery(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// WebhookProcessor builds the verify-then-dispatch pipeline for cfg. The
// receive command is the dispatcher so deliveries go through go-command.
func (f *Facade) WebhookProcessor(cfg core.WebhookConfig) (*webhooks.Processor, error) {
	if f == nil || f.commands.ReceiveWebhook == nil {
		return nil, fmt.Errorf("accountwebhooks: facade is not configured")
	}
	verifier := webhooks.NewHMACSignatureVerifier(cfg.SignatureHeader, cfg.Secret)
	if verifier.Secret == "" {
		return nil, fmt.Errorf("accountwebhooks: webhook secret is required")
	}
	processor := webhooks.NewProcessor(verifier, f.commands.ReceiveWebhook)
	eventIDHeader := cfg.EventIDHeader
	if eventIDHeader == "" {
		eventIDHeader = core.DefaultEventIDHeader
	}
	processor.ExtractID = webhooks.HeaderEventIDExtractor(eventIDHeader)
	return processor, nil
}

// Register exposes the facade handlers on the go-command dispatcher.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter) (gocommand.Subscriptions, error) {
	if f == nil {
		return nil, fmt.Errorf("accountwebhooks: facade is not configured")
	}
	return gocommand.Wire(adapter, gocommand.Handlers{
		CreateAccount:  f.commands.CreateAccount,
		ReceiveWebhook: f.commands.ReceiveWebhook,
		GetAccount:     f.queries.GetAccount,
		GetEvent:       f.queries.GetEvent,
	})
}
