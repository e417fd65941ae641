// Package cli provides the command-line interface for lrucache.
package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lrucache/internal/cache"
	"lrucache/internal/config"
	"lrucache/internal/logging"
	"lrucache/internal/metrics"
)

// metricsNamespace prefixes every exported metric name.
const metricsNamespace = "lrucache"

// App holds the state shared by every subcommand once flags and
// configuration have been resolved.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Registry *prometheus.Registry

	reportMetrics bool
}

// NewRootCmd creates the root command for lrucache.
func NewRootCmd(version string) *cobra.Command {
	app := &App{}
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "lrucache",
		Short:        "A bounded least-recently-used cache",
		Long:         `Exercise a fixed-capacity LRU cache: run the reference scenarios or replay an operation script.`,
		Version:      version,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a config file (yaml, json or toml)")
	flags.Int("capacity", config.Default().Cache.Capacity, "Cache capacity (entries)")
	flags.String("log-level", config.Default().Logging.Level, "Log level: trace, debug, info, warn, error")
	flags.String("log-format", config.Default().Logging.Format, "Log format: console or json")
	flags.BoolVar(&app.reportMetrics, "metrics", false, "Log a metrics snapshot when the command finishes")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		loader := config.NewLoader()
		v := loader.Viper()
		bindings := map[string]string{
			"cache.capacity": "capacity",
			"logging.level":  "log-level",
			"logging.format": "log-format",
		}
		for key, flag := range bindings {
			if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}

		cfg, err := loader.Load(configPath)
		if err != nil {
			return err
		}

		app.Config = cfg
		app.Logger = logging.New(cfg.LogConfig(), cmd.ErrOrStderr())
		app.Registry = prometheus.NewRegistry()
		cmd.SetContext(logging.WithContext(cmd.Context(), app.Logger))
		return nil
	}

	rootCmd.AddCommand(NewDemoCmd(app))
	rootCmd.AddCommand(NewReplayCmd(app))

	return rootCmd
}

// register exposes source's stats through the app registry under component.
func (a *App) register(component string, source metrics.StatsSource) error {
	col := metrics.NewCollector(metricsNamespace, source)
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"component": component}, a.Registry)
	if err := reg.Register(col); err != nil {
		return fmt.Errorf("failed to register %s metrics: %w", component, err)
	}
	return nil
}

// logMetrics writes the registry contents when --metrics was given.
func (a *App) logMetrics() error {
	if !a.reportMetrics {
		return nil
	}
	samples, err := metrics.Snapshot(a.Registry)
	if err != nil {
		return err
	}
	for _, s := range samples {
		a.Logger.Info().Str("metric", s.Name).Str("labels", s.Labels).Float64("value", s.Value).Msg("metric")
	}
	return nil
}

// evictionLogger returns an OnEvict option that logs at debug level and then
// calls next, if set.
func evictionLogger[K comparable, V any](logger zerolog.Logger, next func(K, V)) cache.Option[K, V] {
	return cache.WithOnEvict(func(k K, v V) {
		logger.Debug().Interface("key", k).Interface("value", v).Msg("evicted")
		if next != nil {
			next(k, v)
		}
	})
}
