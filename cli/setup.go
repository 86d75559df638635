package cli

import (
	"context"
	"fmt"

	"github.com/compozy/gantt/pkg/config"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/spf13/cobra"
)

// SetupGlobalConfig loads the layered configuration, installs the logger and
// attaches both to the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx, buildSources(cmd, configFile)...)
	if err != nil {
		return err
	}
	_, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return err
	}
	logger.SetupLogger(cfg.Runtime.LogLevel, logJSON, logSource)
	log := logger.GetDefault()
	manager.OnChange(func(next *config.Config) {
		log.Info("Configuration updated", "data", next.Data.Path)
	})
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithManager(ctx, manager)
	cmd.SetContext(ctx)
	return nil
}

// buildSources returns the configuration sources in precedence order.
func buildSources(cmd *cobra.Command, configFile string) []config.Source {
	sources := []config.Source{
		config.NewDefaultProvider(),
		config.NewEnvProvider(),
	}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	cliFlags := make(map[string]any)
	extractCLIFlags(cmd, cliFlags)
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}
	return sources
}
