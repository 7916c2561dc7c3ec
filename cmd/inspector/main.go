package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/katringoogoo/byteball-genesis/internal/config"
	"github.com/katringoogoo/byteball-genesis/internal/keccak"
	"github.com/katringoogoo/byteball-genesis/pkg/genesis"
	"github.com/katringoogoo/byteball-genesis/pkg/staging"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var stagingFolder string
	var witnessCount int

	cmd := &cobra.Command{
		Use:   "inspector",
		Short: "Verify the genesis artifacts in a staging folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// a provisioning config supplies whatever was not given on the command line
			checkCount := cmd.Flags().Changed("witness-count")
			if configPath != "" {
				cfg, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("staging-folder") {
					stagingFolder = cfg.StagingFolder
				}
				if !checkCount {
					witnessCount, checkCount = cfg.WitnessCount, true
				}
			}

			area := staging.Open(stagingFolder)
			out := cmd.OutOrStdout()

			doc, err := genesis.Load(area.GenesisInputPath())
			if err != nil {
				return err
			}
			if err := genesis.Check(doc); err != nil {
				return fmt.Errorf("genesis input invalid: %w", err)
			}
			if checkCount && len(doc.InitialWitnesses) != witnessCount {
				return fmt.Errorf("expected %d witnesses, found %d", witnessCount, len(doc.InitialWitnesses))
			}
			if dups := genesis.Duplicates(doc.InitialWitnesses); len(dups) > 0 {
				fmt.Fprintf(out, "warning: duplicate witnesses %v\n", dups)
			}

			digest, err := keccak.File(area.GenesisInputPath())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "genesis input: %d witnesses, payout %s\n", len(doc.InitialWitnesses), doc.PayoutAddress)
			fmt.Fprintf(out, "genesis input digest: %s\n", hexutil.Encode(digest[:]))

			nc, err := genesis.LoadNetworkConfig(area.NetworkConfigPath())
			switch {
			case errors.Is(err, os.ErrNotExist):
				fmt.Fprintln(out, "network config: not generated")
			case err != nil:
				return err
			default:
				if err := genesis.CheckNetworkConfig(doc, nc); err != nil {
					return fmt.Errorf("network config inconsistent: %w", err)
				}
				fmt.Fprintf(out, "network config: genesis unit %s\n", nc.GenesisUnitHash)
			}
			fmt.Fprintln(out, "staging folder verified ✅")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Provisioning YAML settings to take the staging folder and witness count from")
	cmd.Flags().StringVarP(&stagingFolder, "staging-folder", "s", "../docker-images/_staging", "Staging folder to verify")
	cmd.Flags().IntVarP(&witnessCount, "witness-count", "w", 0, "Expected witness count")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
