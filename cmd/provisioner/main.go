package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/katringoogoo/byteball-genesis/internal/config"
	"github.com/katringoogoo/byteball-genesis/internal/fault"
	"github.com/katringoogoo/byteball-genesis/internal/logging"
	"github.com/katringoogoo/byteball-genesis/pkg/pipeline"
	"github.com/katringoogoo/byteball-genesis/pkg/runner"
)

// contextKey is a custom type for context keys to avoid conflicts.
type contextKey string

const startTimeKey contextKey = "start"

// errAborted is returned once the failure has been logged.
var errAborted = errors.New("aborted")

func elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startTimeKey).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "provisioner",
		Short:         "Generate witness wallets, genesis input and network configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.Verbose {
				logger.Info("VERBOSE logging enabled!")
			}

			// -----------------------------------------------------------------
			// External tools
			// -----------------------------------------------------------------
			walletTool, err := runner.ParseTool("wallet", cfg.WalletTool)
			if err != nil {
				return fault.New(fault.Config, "wallet tool", err)
			}
			networkTool, err := runner.ParseTool("network", cfg.NetworkTool)
			if err != nil {
				return fault.New(fault.Config, "network tool", err)
			}

			driver := pipeline.New(logger, pipeline.Tools{
				Runner:  &runner.Exec{Dir: cfg.WorkDir},
				Wallet:  walletTool,
				Network: networkTool,
				WorkDir: cfg.WorkDir,
				Timeout: cfg.ToolTimeout,
			})

			// -----------------------------------------------------------------
			// Run
			// -----------------------------------------------------------------
			rep, err := driver.Run(cmd.Context(), pipeline.Options{
				StagingFolder:   cfg.StagingFolder,
				WitnessCount:    cfg.WitnessCount,
				Version:         cfg.NetworkVersion,
				MainHub:         cfg.MainHub,
				CreationMessage: cfg.CreationMessage,
				Jobs:            cfg.Jobs,
				CopyAppData:     cfg.CopyAppData,
				Publish:         cfg.Publish,
			})
			if err != nil {
				logger.Error("Aborting", "kind", fault.KindOf(err), "err", err)
				return errAborted
			}

			logger.Info("Genesis configuration ready",
				"staging", rep.StagingFolder,
				"witnesses", len(rep.InitialWitnesses),
				"payout", rep.PayoutAddress,
				"network_config", rep.NetworkConfigPath,
				"digest", rep.GenesisInputHash,
				"elapsed", elapsed(cmd.Context()))
			return nil
		},
	}
	config.RegisterFlags(rootCmd.Flags())
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	ctx := context.WithValue(context.Background(), startTimeKey, time.Now())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errAborted) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
