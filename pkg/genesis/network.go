package genesis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"

	"github.com/katringoogoo/byteball-genesis/pkg/runner"
)

// publishFlag switches the network tool from generating to publishing the
// genesis unit.
const publishFlag = "-p"

// NetworkConfig is network_config.json as written by the network tool.
// Only inspection reads it; this module never produces it.
type NetworkConfig struct {
	WitnessCount       int             `json:"witness_count"`
	Version            string          `json:"version"`
	GenesisUnitHash    string          `json:"genesis_unit_hash"`
	GenesisUnit        json.RawMessage `json:"genesis_unit,omitempty"`
	BlackbytesUnitHash string          `json:"blackbytes_unit_hash"`
	InitialWitnesses   []string        `json:"initial_witnesses"`
	InitialPeers       []string        `json:"initial_peers"`
}

// LoadNetworkConfig reads a network config file.
func LoadNetworkConfig(path string) (*NetworkConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var nc NetworkConfig
	if err := json.Unmarshal(b, &nc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return &nc, nil
}

// Generator runs the external genesis unit / network config tool.
type Generator struct {
	inv  *runner.Invoker
	tool runner.Tool
	log  log.Logger
}

func NewGenerator(inv *runner.Invoker, tool runner.Tool, l log.Logger) *Generator {
	return &Generator{inv: inv, tool: tool, log: l}
}

// Generate has the tool derive the network config at outputPath from the
// genesis input document at inputPath.
func (g *Generator) Generate(ctx context.Context, inputPath, outputPath string) error {
	g.log.Info("Generating genesis unit hash and network configuration ...", "input", inputPath, "output", outputPath)
	return g.inv.Invoke(ctx, g.tool, inputPath, outputPath)
}

// Publish has the tool publish the genesis unit described by an already
// generated network config.
func (g *Generator) Publish(ctx context.Context, inputPath, outputPath string) error {
	g.log.Info("Publishing genesis unit ...", "input", inputPath, "config", outputPath)
	return g.inv.Invoke(ctx, g.tool, inputPath, outputPath, publishFlag)
}
