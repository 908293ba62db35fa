package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
	"github.com/esang-logistics/spectra-cli/internal/config"
	"github.com/esang-logistics/spectra-cli/internal/match"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "spectra-cli",
	Short: "Crude-grade identification from field sample readings",
	Long:  "Matches quick lab readings (API gravity, BS&W, sulfur, ...) against a reference catalog of globally traded crude grades and returns ranked candidates with per-parameter breakdowns.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initEngine loads the embedded catalog and builds an engine from the
// configured weight/tolerance overrides.
func initEngine() (*catalog.Catalog, *match.Engine, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, err
	}

	opts := match.Options{
		MaxResults:         cfg.Match.MaxResults,
		ViscosityTolerance: cfg.Match.ViscosityTolerance,
	}
	if len(cfg.Match.Weights) > 0 {
		w := match.DefaultWeights()
		for name, weight := range cfg.Match.Weights {
			p, ok := match.ParseParameter(name)
			if !ok {
				zap.L().Warn("ignoring weight for unknown parameter", zap.String("name", name))
				continue
			}
			w[p] = weight
		}
		opts.Weights = w
	}
	if len(cfg.Match.Tolerances) > 0 {
		t := match.DefaultTolerances()
		for name, tol := range cfg.Match.Tolerances {
			p, ok := match.ParseParameter(name)
			if !ok {
				zap.L().Warn("ignoring tolerance for unknown parameter", zap.String("name", name))
				continue
			}
			t[p] = tol
		}
		opts.Tolerances = t
	}

	zap.L().Debug("catalog loaded",
		zap.Int("grades", cat.Len()),
		zap.String("version", cat.Version()),
	)
	return cat, match.NewEngine(cat, opts), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
