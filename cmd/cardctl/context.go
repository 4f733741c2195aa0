package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	service "github.com/okian/tcgprice/internal/app"
	"github.com/okian/tcgprice/internal/bootstrap"
	"github.com/okian/tcgprice/internal/config"
	"github.com/okian/tcgprice/pkg/logger"
)

type globalFlags struct {
	configPath string
	output     string
	logLevel   string
	sourceMode string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	serviceOnce sync.Once
	service     *service.Service
	serviceErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// initLogging sends every log line to w so stdout stays machine readable.
func (c *commandContext) initLogging(w io.Writer) error {
	if err := logger.InitWithWriter(w); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if err := logger.SetLevelString(c.flags.logLevel); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	return nil
}

func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	c.configOnce.Do(func() {
		var (
			cfg *config.Config
			err error
		)
		if path := strings.TrimSpace(c.flags.configPath); path != "" {
			cfg, err = config.LoadFile(ctx, path)
		} else {
			cfg, err = config.Load(ctx)
		}
		if err != nil {
			c.configErr = err
			return
		}
		if mode := strings.TrimSpace(c.flags.sourceMode); mode != "" {
			cfg.SourceMode = strings.ToLower(mode)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureService(ctx context.Context) (*service.Service, error) {
	c.serviceOnce.Do(func() {
		cfg, err := c.ensureConfig(ctx)
		if err != nil {
			c.serviceErr = fmt.Errorf("load configuration: %w", err)
			return
		}
		c.service, c.serviceErr = bootstrap.Start(ctx, cfg, logger.Named("cardctl"))
	})
	return c.service, c.serviceErr
}
