// Package runnertest provides an in-process stand-in for the external
// wallet and network config tools.
package runnertest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/katringoogoo/byteball-genesis/pkg/runner"
)

// Programs the fake answers to.
const (
	WalletProgram  = "fake-wallet"
	NetworkProgram = "fake-network"
)

var (
	WalletTool  = runner.Tool{Name: "wallet", Command: []string{WalletProgram}}
	NetworkTool = runner.Tool{Name: "network", Command: []string{NetworkProgram}}
)

// Fake implements runner.Runner. The wallet program writes <name>.json and an
// appdata directory under WorkDir; the network program reads the genesis
// input document and writes a network config.
type Fake struct {
	WorkDir string

	// Address maps a wallet name to the address the tool reports.
	// Defaults to DefaultAddress.
	Address func(name string) string

	// Fail makes the invocation for a wallet name (or "network") exit 1.
	Fail map[string]bool
	// NoDescriptor makes the wallet tool succeed without writing its file.
	NoDescriptor map[string]bool

	mu    sync.Mutex
	calls [][]string
}

// DefaultAddress derives a stable, upper-case 32 character address.
func DefaultAddress(name string) string {
	h := crypto.Keccak256([]byte(name))
	return strings.ToUpper(hexutil.Encode(h)[2:34])
}

// Calls returns every invocation as program followed by its arguments.
func (f *Fake) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// Called reports whether program was invoked at all.
func (f *Fake) Called(program string) bool {
	for _, c := range f.Calls() {
		if c[0] == program {
			return true
		}
	}
	return false
}

// AppDataDir is where the fake wallet tool leaves runtime state for name.
func (f *Fake) AppDataDir(name string) string {
	return filepath.Join(f.WorkDir, "appdata", name)
}

func (f *Fake) Run(ctx context.Context, program string, args ...string) (*runner.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{program}, args...))
	f.mu.Unlock()

	switch program {
	case WalletProgram:
		return f.wallet(args)
	case NetworkProgram:
		return f.network(args)
	}
	return nil, fmt.Errorf("exec: %q: executable file not found in $PATH", program)
}

func failed(msg string) *runner.Result {
	return &runner.Result{Stderr: []byte(msg + "\n"), ExitCode: 1}
}

func (f *Fake) wallet(args []string) (*runner.Result, error) {
	if len(args) != 1 {
		return failed("usage: wallet <wallet_name>"), nil
	}
	name := args[0]
	if f.Fail[name] {
		return failed("Error: could not initialize wallet " + name), nil
	}
	if f.NoDescriptor[name] {
		return &runner.Result{Stdout: []byte(">> Generating wallet for: " + name + "\n")}, nil
	}

	addr := DefaultAddress
	if f.Address != nil {
		addr = f.Address
	}
	appData := f.AppDataDir(name)
	if err := os.MkdirAll(appData, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(appData, "conf.json"), []byte(`{"deviceName":"`+name+`"}`), 0o644); err != nil {
		return nil, err
	}

	desc := map[string]any{
		"mnemonic_phrase": "mnemonic of " + name,
		"passphrase":      "pass-" + name,
		"definition":      []any{"sig", map[string]string{"pubkey": "pub-" + name}},
		"address":         addr(name),
		"deviceName":      name,
		"appDataDir":      appData,
	}
	b, err := json.MarshalIndent(desc, "", "\t")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(f.WorkDir, name+".json"), b, 0o644); err != nil {
		return nil, err
	}
	out := ">> Generating wallet for: " + name + "\nDONE, exiting.\n"
	return &runner.Result{Stdout: []byte(out)}, nil
}

func (f *Fake) network(args []string) (*runner.Result, error) {
	if f.Fail["network"] {
		return failed("Error: genesis unit validation failed"), nil
	}
	if len(args) < 2 {
		return failed("usage: network <path_to_genesis_config> <network_config_file> [-p]"), nil
	}
	if len(args) == 3 && args[2] == "-p" {
		return &runner.Result{Stdout: []byte("PUBLISH MODE!\n")}, nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return failed(err.Error()), nil
	}
	var in struct {
		Version          string   `json:"version"`
		InitialWitnesses []string `json:"initial_witnesses"`
		InitialPeers     []string `json:"initial_peers"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return failed(err.Error()), nil
	}
	cfg := map[string]any{
		"witness_count":        len(in.InitialWitnesses),
		"version":              in.Version,
		"genesis_unit_hash":    hexutil.Encode(crypto.Keccak256(raw)),
		"genesis_unit":         map[string]any{"version": in.Version},
		"blackbytes_unit_hash": "<undefined>",
		"initial_witnesses":    in.InitialWitnesses,
		"initial_peers":        in.InitialPeers,
	}
	b, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(args[1], b, 0o644); err != nil {
		return failed(err.Error()), nil
	}
	return &runner.Result{Stdout: []byte("Using genesis config file: " + args[0] + "\n")}, nil
}
