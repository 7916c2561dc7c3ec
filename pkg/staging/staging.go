// Package staging owns the directory that collects one provisioning run's
// artifacts. A run always starts from an empty area; nothing is carried over.
package staging

import (
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"

	"github.com/katringoogoo/byteball-genesis/internal/fault"
)

// Artifact file names inside the staging area.
const (
	GenesisInputFile  = "genesis_input_data.json"
	NetworkConfigFile = "network_config.json"
	DescriptorExt     = ".json"
)

// Area is a staging directory.
type Area struct {
	Root string
}

// Open returns the Area at root without touching the filesystem.
func Open(root string) *Area { return &Area{Root: root} }

// Reset removes root if present and recreates it empty.
func Reset(l log.Logger, root string) (*Area, error) {
	if root == "" {
		return nil, fault.Newf(fault.Config, "reset staging", "empty staging folder path")
	}
	if _, err := os.Lstat(root); err == nil {
		l.Info("Removing old staging folder", "path", root)
		if err := os.RemoveAll(root); err != nil {
			return nil, fault.New(fault.Filesystem, "remove "+root, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fault.New(fault.Filesystem, "stat "+root, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fault.New(fault.Filesystem, "create "+root, err)
	}
	return &Area{Root: root}, nil
}

// WalletDir is where a wallet's relocated appdata lives.
func (a *Area) WalletDir(name string) string { return filepath.Join(a.Root, name) }

// DescriptorPath is where a wallet's descriptor file is moved to.
func (a *Area) DescriptorPath(name string) string {
	return filepath.Join(a.Root, name+DescriptorExt)
}

func (a *Area) GenesisInputPath() string  { return filepath.Join(a.Root, GenesisInputFile) }
func (a *Area) NetworkConfigPath() string { return filepath.Join(a.Root, NetworkConfigFile) }
