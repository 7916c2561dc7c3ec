// Package pipeline sequences one provisioning run:
//
//	RESET_STAGING -> PROVISION_WITNESSES -> PROVISION_GENESIS -> AGGREGATE
//	  -> GENERATE_NETWORK_CONFIG [-> PUBLISH] -> DONE
//
// Any stage error ends the run. Nothing is rolled back; the next run wipes
// the staging area anyway.
package pipeline

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/katringoogoo/byteball-genesis/internal/fault"
	"github.com/katringoogoo/byteball-genesis/internal/keccak"
	"github.com/katringoogoo/byteball-genesis/pkg/genesis"
	"github.com/katringoogoo/byteball-genesis/pkg/runner"
	"github.com/katringoogoo/byteball-genesis/pkg/staging"
	"github.com/katringoogoo/byteball-genesis/pkg/wallet"
	"github.com/katringoogoo/byteball-genesis/pkg/witness"
)

// GenesisWalletName is the wallet that receives the initial payout.
const GenesisWalletName = "genesis_wallet"

// Stage names, as logged.
const (
	StageReset      = "RESET_STAGING"
	StageWitnesses  = "PROVISION_WITNESSES"
	StageGenesis    = "PROVISION_GENESIS"
	StageAggregate  = "AGGREGATE"
	StageNetworkCfg = "GENERATE_NETWORK_CONFIG"
	StagePublish    = "PUBLISH"
	StageDone       = "DONE"
)

// Options are the per-run inputs.
type Options struct {
	StagingFolder   string
	WitnessCount    int
	Version         string
	MainHub         string
	CreationMessage string

	Jobs        int  // concurrent witness provisioning, <2 is sequential
	CopyAppData bool // copy instead of move wallet appdata
	Publish     bool
}

// Tools bundles what the driver needs to reach the external programs.
type Tools struct {
	Runner  runner.Runner
	Wallet  runner.Tool
	Network runner.Tool
	WorkDir string
	Timeout time.Duration
}

// Report summarises a finished run.
type Report struct {
	StagingFolder     string
	Witnesses         []string // wallet names in provisioning order
	InitialWitnesses  []string // sorted addresses
	PayoutAddress     string
	GenesisInputPath  string
	NetworkConfigPath string
	GenesisInputHash  common.Hash
}

// Driver runs the pipeline.
type Driver struct {
	log  log.Logger
	prov *wallet.Provisioner
	gen  *genesis.Generator
}

func New(l log.Logger, t Tools) *Driver {
	inv := runner.NewInvoker(t.Runner, l, t.Timeout)
	return &Driver{
		log:  l,
		prov: wallet.NewProvisioner(inv, t.Wallet, t.WorkDir, l),
		gen:  genesis.NewGenerator(inv, t.Network, l),
	}
}

// Run executes every stage in order and stops at the first error.
func (d *Driver) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.WitnessCount < 0 {
		return nil, fault.Newf(fault.Config, "run", "witness count %d is negative", opts.WitnessCount)
	}
	move := !opts.CopyAppData

	d.stage(StageReset)
	area, err := staging.Reset(d.log, opts.StagingFolder)
	if err != nil {
		return nil, err
	}

	d.stage(StageWitnesses, "count", opts.WitnessCount, "jobs", max(opts.Jobs, 1))
	b := &witness.Builder{Provisioner: d.prov, Log: d.log, Jobs: opts.Jobs, MoveAppData: move}
	entries, err := b.Build(ctx, area, opts.WitnessCount)
	if err != nil {
		return nil, err
	}

	d.stage(StageGenesis)
	d.log.Info("Generating genesis wallet", "name", GenesisWalletName)
	gw, err := d.prov.Provision(ctx, GenesisWalletName, area, move)
	if err != nil {
		return nil, err
	}
	entries = append(entries, wallet.Entry{Name: GenesisWalletName, Descriptor: gw})

	d.stage(StageAggregate)
	inputPath := area.GenesisInputPath()
	doc, err := genesis.WriteConfiguration(d.log, entries, genesis.Params{
		WitnessPrefix:     witness.Prefix,
		GenesisWalletName: GenesisWalletName,
		Version:           opts.Version,
		InitialPeers:      []string{opts.MainHub},
		CreationMessage:   opts.CreationMessage,
	}, inputPath)
	if err != nil {
		return nil, err
	}
	digest, err := keccak.File(inputPath)
	if err != nil {
		return nil, fault.New(fault.Filesystem, "digest "+inputPath, err)
	}
	d.log.Info("Genesis input written", "path", inputPath, "witnesses", len(doc.InitialWitnesses), "digest", digest)

	d.stage(StageNetworkCfg)
	cfgPath := area.NetworkConfigPath()
	if err := d.gen.Generate(ctx, inputPath, cfgPath); err != nil {
		return nil, err
	}

	if opts.Publish {
		d.stage(StagePublish)
		if err := d.gen.Publish(ctx, inputPath, cfgPath); err != nil {
			return nil, err
		}
	}

	d.stage(StageDone)
	names := make([]string, 0, len(entries)-1)
	for _, e := range entries[:len(entries)-1] {
		names = append(names, e.Name)
	}
	return &Report{
		StagingFolder:     area.Root,
		Witnesses:         names,
		InitialWitnesses:  doc.InitialWitnesses,
		PayoutAddress:     doc.PayoutAddress,
		GenesisInputPath:  inputPath,
		NetworkConfigPath: cfgPath,
		GenesisInputHash:  digest,
	}, nil
}

func (d *Driver) stage(name string, ctx ...any) {
	d.log.Info("Entering stage", append([]any{"stage", name}, ctx...)...)
}
