package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katringoogoo/byteball-genesis/internal/logging"
	"github.com/katringoogoo/byteball-genesis/pkg/genesis"
	"github.com/katringoogoo/byteball-genesis/pkg/pipeline"
	"github.com/katringoogoo/byteball-genesis/pkg/runner/runnertest"
)

func provision(t *testing.T, n int) string {
	t.Helper()
	fake := &runnertest.Fake{WorkDir: t.TempDir()}
	d := pipeline.New(logging.Discard(), pipeline.Tools{
		Runner:  fake,
		Wallet:  runnertest.WalletTool,
		Network: runnertest.NetworkTool,
		WorkDir: fake.WorkDir,
	})
	dir := filepath.Join(t.TempDir(), "_staging")
	_, err := d.Run(context.Background(), pipeline.Options{
		StagingFolder: dir,
		WitnessCount:  n,
		Version:       "1.0t",
		MainHub:       "example.org/bb",
	})
	require.NoError(t, err)
	return dir
}

func inspect(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspectorVerifiesRun(t *testing.T) {
	dir := provision(t, 3)

	out, err := inspect("--staging-folder", dir, "--witness-count", "3")
	require.NoError(t, err, out)
	require.Contains(t, out, "genesis input: 3 witnesses")
	require.Contains(t, out, "genesis input digest: 0x")
	require.Contains(t, out, "verified")
}

func TestInspectorWrongCount(t *testing.T) {
	dir := provision(t, 2)
	_, err := inspect("-s", dir, "-w", "3")
	require.ErrorContains(t, err, "expected 3 witnesses, found 2")
}

func TestInspectorWithoutNetworkConfig(t *testing.T) {
	dir := provision(t, 1)
	require.NoError(t, os.Remove(filepath.Join(dir, "network_config.json")))

	out, err := inspect("-s", dir)
	require.NoError(t, err)
	require.Contains(t, out, "network config: not generated")
}

func TestInspectorDetectsTampering(t *testing.T) {
	dir := provision(t, 2)
	path := filepath.Join(dir, "genesis_input_data.json")

	doc, err := genesis.Load(path)
	require.NoError(t, err)
	doc.InitialWitnesses[0], doc.InitialWitnesses[1] = doc.InitialWitnesses[1], doc.InitialWitnesses[0]
	require.NoError(t, genesis.Write(doc, path))

	_, err = inspect("-s", dir)
	require.ErrorContains(t, err, "not sorted")
}

func TestInspectorDetectsStaleNetworkConfig(t *testing.T) {
	dir := provision(t, 2)
	path := filepath.Join(dir, "genesis_input_data.json")

	doc, err := genesis.Load(path)
	require.NoError(t, err)
	doc.Version = "2.0"
	require.NoError(t, genesis.Write(doc, path))

	_, err = inspect("-s", dir)
	require.ErrorContains(t, err, "network config inconsistent")
}

func TestInspectorReadsConfig(t *testing.T) {
	dir := provision(t, 2)
	cfgPath := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("staging_folder: "+dir+"\nwitness_count: 2\n"), 0o644))

	out, err := inspect("--config", cfgPath)
	require.NoError(t, err, out)
	require.Contains(t, out, "genesis input: 2 witnesses")

	_, err = inspect("--config", cfgPath, "-w", "5")
	require.ErrorContains(t, err, "expected 5 witnesses, found 2")

	require.NoError(t, os.WriteFile(cfgPath, []byte("staging_folder: "+dir+"\nwitness_count: 4\n"), 0o644))
	_, err = inspect("--config", cfgPath)
	require.ErrorContains(t, err, "expected 4 witnesses, found 2")

	_, err = inspect("--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestInspectorMissingFolder(t *testing.T) {
	_, err := inspect("-s", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
