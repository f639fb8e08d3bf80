package cli

import (
	"fmt"
	"strings"

	"github.com/soyeahso/azent/internal/browse"
	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/hooks"
	"github.com/soyeahso/azent/internal/market"
	"github.com/soyeahso/azent/internal/store"
)

// app holds the collaborators a marketplace command needs.
type app struct {
	client   *market.Client
	db       *store.DB
	accounts *store.AccountStore
	agents   *store.AgentStore
	hooks    *hooks.Manager
	svc      *browse.Service
	session  *domain.Session // saved login, nil when logged out
}

// openApp connects the API client, the local store (unless disabled in
// config), configured hooks and the browse service.
func openApp() (*app, error) {
	a := &app{hooks: hooks.NewManager(log)}
	if n := hooks.RegisterCommands(a.hooks, cfg.Hooks); n > 0 {
		log.Debug().Int("hooks", n).Msg("shell hooks registered")
	}

	var cache browse.Cache
	var ledger browse.Ledger
	if cfg.Cache.Store != "none" {
		db, err := store.Open(paths.CacheDB(cfg.Cache), log)
		if err != nil {
			return nil, fmt.Errorf("opening local store: %w", err)
		}
		a.db = db
		a.accounts = store.NewAccountStore(db)
		a.agents = store.NewAgentStore(db)
		cache = a.agents
		ledger = a.accounts
	}

	if a.accounts != nil {
		sess, err := a.accounts.Session(strings.TrimRight(cfg.API.BaseURL, "/"))
		if err != nil {
			log.Warn().Err(err).Msg("failed to read saved session")
		}
		a.session = sess
	}
	token := cfg.API.Token
	if token == "" && a.session != nil {
		token = a.session.Token
	}

	client, err := market.New(market.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     token,
		Timeout:   cfg.API.Timeout(),
		UserAgent: cfg.API.UserAgent,
	}, log)
	if err != nil {
		a.close()
		return nil, err
	}
	a.client = client

	a.svc = browse.New(browse.Options{
		API:    client,
		Cache:  cache,
		Ledger: ledger,
		Hooks:  a.hooks,
	}, log)
	return a, nil
}

// close waits for async hooks and releases the store.
func (a *app) close() {
	a.hooks.Wait()
	if a.db != nil {
		a.db.Close()
	}
}

// withApp runs fn with an opened app and closes it afterwards.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
