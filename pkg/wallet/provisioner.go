// Package wallet generates single wallets through the external wallet tool
// and relocates what it leaves behind into the staging area.
package wallet

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"

	"github.com/katringoogoo/byteball-genesis/internal/fault"
	"github.com/katringoogoo/byteball-genesis/internal/fsutil"
	"github.com/katringoogoo/byteball-genesis/pkg/runner"
	"github.com/katringoogoo/byteball-genesis/pkg/staging"
)

// Provisioner drives the wallet tool for one wallet name at a time.
type Provisioner struct {
	inv     *runner.Invoker
	tool    runner.Tool
	workDir string
	log     log.Logger
}

// NewProvisioner returns a Provisioner. workDir must be the directory the
// tool runs in; descriptors are looked up there.
func NewProvisioner(inv *runner.Invoker, tool runner.Tool, workDir string, l log.Logger) *Provisioner {
	if workDir == "" {
		workDir = "."
	}
	return &Provisioner{inv: inv, tool: tool, workDir: workDir, log: l}
}

// Provision generates wallet name and relocates its artifacts into area:
// appdata to <area>/<name> (moved, or copied when moveAppData is false) and
// the descriptor file to <area>/<name>.json (always moved).
//
// The returned descriptor holds the values the tool wrote; AppDataDir still
// names the original location.
func (p *Provisioner) Provision(ctx context.Context, name string, area *staging.Area, moveAppData bool) (*Descriptor, error) {
	if err := p.inv.Invoke(ctx, p.tool, name); err != nil {
		return nil, err
	}

	descPath := filepath.Join(p.workDir, name+staging.DescriptorExt)
	if _, err := os.Stat(descPath); err != nil {
		p.log.Error("Could not find config file", "path", descPath)
		return nil, fault.New(fault.MissingArtifact, "provision "+name, err)
	}
	desc, err := Load(descPath)
	if err != nil {
		return nil, fault.New(fault.MissingArtifact, "provision "+name, err)
	}
	if desc.AppDataDir == "" {
		return nil, fault.Newf(fault.MissingArtifact, "provision "+name, "%s has no appDataDir", descPath)
	}

	src := desc.AppDataDir
	if !filepath.IsAbs(src) {
		src = filepath.Join(p.workDir, src)
	}
	dst := area.WalletDir(name)
	if moveAppData {
		p.log.Debug("Moving appdata", "wallet", name, "from", src, "to", dst)
		err = fsutil.Move(src, dst)
	} else {
		p.log.Debug("Copying appdata", "wallet", name, "from", src, "to", dst)
		err = fsutil.CopyDir(src, dst)
	}
	if err != nil {
		return nil, fault.New(fault.Filesystem, "relocate appdata of "+name, err)
	}

	if err := fsutil.Move(descPath, area.DescriptorPath(name)); err != nil {
		return nil, fault.New(fault.Filesystem, "move descriptor of "+name, err)
	}
	return desc, nil
}
