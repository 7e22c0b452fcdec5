package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subrecon/internal/config"
	"subrecon/internal/faults"
	"subrecon/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	quietFlag    *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, quietFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		quietFlag:    quietFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// ensureLogger builds the process logger from the [logging] section and the
// global log flags. Logs go to stderr so stdout stays reserved for results.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		opts := logging.Options{Level: "info", Format: "console", Color: shouldColorize(os.Stderr)}
		if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
			opts.Level = cfg.Logging.Level
			opts.Format = cfg.Logging.Format
			opts.FilePath = cfg.Logging.File
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				if !logging.ValidLevel(level) {
					c.loggerErr = faults.Wrap(faults.ErrConfiguration, "logging", "log level", fmt.Sprintf("unsupported value %q", level), nil)
					return
				}
				opts.Level = level
			}
		}
		logger, err := logging.New(opts)
		if err != nil {
			c.loggerErr = faults.Wrap(faults.ErrConfiguration, "logging", "init", "", err)
			return
		}
		if c.quietFlag != nil && *c.quietFlag {
			logger = logging.WithLevelOverride(logger, slog.LevelError)
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// skipConfigLoad marks commands that must run without a loadable config.
const skipConfigLoad = "skipConfigLoad"

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigLoad] == "true" {
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
