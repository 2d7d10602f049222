package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/config"
	"github.com/jwulff/minutes/internal/credentials"
	"github.com/jwulff/minutes/internal/db"
	"github.com/jwulff/minutes/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	config  string
	server  string
	session string
	debug   bool
}

// commandContext lazily builds what subcommands share. Each piece is
// created at most once per process.
type commandContext struct {
	flags *globalFlags

	// stderr receives debug console logging; tests replace it.
	stderr io.Writer

	// ephemeral keeps session state in memory for ui and mcp.
	ephemeral bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce   sync.Once
	log       zerolog.Logger
	logCloser io.Closer

	storeOnce sync.Once
	store     *db.Store
	storeErr  error

	clientOnce sync.Once
	client     *assistant.Client
	clientErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags, stderr: os.Stderr}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if s := strings.TrimSpace(c.flags.server); s != "" {
			cfg.ServerURL = s
		}
		if s := strings.TrimSpace(c.flags.session); s != "" {
			cfg.Session = s
		}
		if c.flags.debug {
			cfg.Debug = true
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = fmt.Errorf("validating config: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger returns the process logger. Before a config is available it is a
// no-op logger.
func (c *commandContext) logger() zerolog.Logger {
	c.logOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.log = zerolog.Nop()
			return
		}
		opts := logging.Options{Level: cfg.LogLevel, File: cfg.LogPath(), Debug: cfg.Debug}
		if cfg.Debug {
			opts.Console = c.stderr
		}
		log, closer, err := logging.New(opts)
		if err != nil {
			fmt.Fprintf(c.stderr, "warning: logging disabled: %v\n", err)
		}
		c.log, c.logCloser = log, closer
	})
	return c.log
}

func (c *commandContext) sessionStore() (*db.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = db.Open(db.DefaultDBPath(cfg.StateDir), cfg.Session)
		if c.storeErr == nil {
			log := c.logger()
			log.Debug().Str("session", c.store.Session()).Str("path", c.store.Path()).Msg("opened session store")
		}
	})
	return c.store, c.storeErr
}

func (c *commandContext) serviceClient() (*assistant.Client, error) {
	c.clientOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.clientErr = err
			return
		}
		token, source := credentials.Resolve(cfg.ServerURL, cfg.Token)
		log := c.logger()
		log.Debug().Str("server", cfg.ServerURL).Str("token_source", string(source)).Msg("service client")
		c.client = assistant.NewClient(assistant.Config{
			BaseURL:   cfg.ServerURL,
			Token:     token,
			Timeout:   cfg.Timeout,
			UserAgent: "minutes/" + version,
		}, assistant.WithLogger(log))
	})
	return c.client, c.clientErr
}

// withService hands fn the client and the session store.
func (c *commandContext) withService(fn func(*assistant.Client, *db.Store) error) error {
	client, err := c.serviceClient()
	if err != nil {
		return err
	}
	store, err := c.sessionStore()
	if err != nil {
		return err
	}
	return fn(client, store)
}

// lockWriter takes the session's writer lock.
func (c *commandContext) lockWriter() (func(), error) {
	store, err := c.sessionStore()
	if err != nil {
		return nil, err
	}
	lock, err := db.LockWriter(store.Path(), store.Session())
	if err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			log := c.logger()
			log.Warn().Err(err).Msg("release writer lock")
		}
	}, nil
}

// seedLanguage stores the configured language as the session preference
// when the session has none yet.
func (c *commandContext) seedLanguage(ctx context.Context, store db.SessionStore) error {
	cfg, err := c.ensureConfig()
	if err != nil || cfg.Language == "" {
		return err
	}
	if _, ok, err := store.Get(ctx, db.KeyLanguage); err != nil || ok {
		return err
	}
	return store.Put(ctx, db.KeyLanguage, string(cfg.DefaultLanguage()))
}

func (c *commandContext) close() error {
	var errs []error
	if c.store != nil {
		errs = append(errs, c.store.Close())
		c.store = nil
	}
	if c.logCloser != nil {
		errs = append(errs, c.logCloser.Close())
		c.logCloser = nil
	}
	return errors.Join(errs...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// serviceMessage is the text shown for a failed service call.
func serviceMessage(err error, fallback string) string {
	if msg, ok := assistant.RemoteMessage(err); ok {
		return msg
	}
	if assistant.IsKind(err, assistant.KindTransport) || fallback == "" {
		return err.Error()
	}
	return fallback
}
