package genesis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katringoogoo/byteball-genesis/internal/fault"
	"github.com/katringoogoo/byteball-genesis/internal/logging"
	"github.com/katringoogoo/byteball-genesis/pkg/wallet"
)

var quiet = logging.Discard()

var params = Params{
	WitnessPrefix:     "witness_",
	GenesisWalletName: "genesis_wallet",
	Version:           "1.0t",
	InitialPeers:      []string{"example.org/bb"},
	CreationMessage:   "Yvan eht Nioj!",
}

func entry(name, addr string) wallet.Entry {
	return wallet.Entry{Name: name, Descriptor: &wallet.Descriptor{
		DeviceName:     name,
		MnemonicPhrase: "mnemonic " + name,
		Passphrase:     "pass " + name,
		Address:        addr,
		Definition:     json.RawMessage(`["sig",{"pubkey":"` + name + `"}]`),
		AppDataDir:     "/tmp/" + name,
	}}
}

func TestAggregateSortsAddressesButNotDefinitions(t *testing.T) {
	entries := []wallet.Entry{
		entry("witness_1", "zzzQ"),
		entry("witness_2", "AAAQ"),
		entry("genesis_wallet", "GGGG"),
	}

	doc, err := Aggregate(quiet, entries, params)
	require.NoError(t, err)

	require.Equal(t, []string{"AAAQ", "zzzQ"}, doc.InitialWitnesses)
	require.Len(t, doc.InitialWitnessesDefinition, 2)
	require.Equal(t, "zzzQ", doc.InitialWitnessesDefinition[0].Address)
	require.Equal(t, "AAAQ", doc.InitialWitnessesDefinition[1].Address)
	require.Equal(t, "pass witness_1", doc.InitialWitnessesDefinition[0].Passphrase)
	require.Equal(t, "mnemonic witness_1", doc.InitialWitnessesDefinition[0].MnemonicPhrase)

	require.Equal(t, "GGGG", doc.PayoutAddress)
	require.NotContains(t, doc.InitialWitnesses, "GGGG")
	require.Equal(t, "1.0t", doc.Version)
	require.Equal(t, []string{"example.org/bb"}, doc.InitialPeers)
	require.Equal(t, "Yvan eht Nioj!", doc.CreationMessage)
}

func TestAggregateCaseInsensitiveOrder(t *testing.T) {
	entries := []wallet.Entry{
		entry("witness_1", "bcd"),
		entry("witness_2", "ABC"),
		entry("witness_3", "Bbb"),
		entry("witness_4", "abd"),
		entry("genesis_wallet", "G"),
	}

	doc, err := Aggregate(quiet, entries, params)
	require.NoError(t, err)
	require.Equal(t, []string{"ABC", "abd", "Bbb", "bcd"}, doc.InitialWitnesses)

	for i := 1; i < len(doc.InitialWitnesses); i++ {
		require.LessOrEqual(t, strings.ToUpper(doc.InitialWitnesses[i-1]), strings.ToUpper(doc.InitialWitnesses[i]))
	}
	require.NoError(t, Check(doc))
}

func TestAggregateZeroWitnesses(t *testing.T) {
	doc, err := Aggregate(quiet, []wallet.Entry{entry("genesis_wallet", "G")}, params)
	require.NoError(t, err)
	require.NotNil(t, doc.InitialWitnesses)
	require.Empty(t, doc.InitialWitnesses)
	require.Empty(t, doc.InitialWitnessesDefinition)
	require.Equal(t, "G", doc.PayoutAddress)
}

func TestAggregateKeepsDuplicates(t *testing.T) {
	entries := []wallet.Entry{
		entry("witness_1", "SAME"),
		entry("witness_2", "SAME"),
		entry("genesis_wallet", "SAME"),
	}
	doc, err := Aggregate(quiet, entries, params)
	require.NoError(t, err)
	require.Equal(t, []string{"SAME", "SAME"}, doc.InitialWitnesses)
	require.Equal(t, "SAME", doc.PayoutAddress)
	require.Equal(t, []string{"SAME"}, Duplicates(doc.InitialWitnesses))
}

func TestAggregateMissingGenesisWallet(t *testing.T) {
	_, err := Aggregate(quiet, []wallet.Entry{entry("witness_1", "A")}, params)
	require.True(t, fault.Is(err, fault.MissingArtifact))
}

func TestAggregateIncompleteWitness(t *testing.T) {
	noAddr := entry("witness_1", "")
	_, err := Aggregate(quiet, []wallet.Entry{noAddr, entry("genesis_wallet", "G")}, params)
	require.True(t, fault.Is(err, fault.MissingArtifact))

	noDef := entry("witness_1", "A")
	noDef.Descriptor.Definition = nil
	_, err = Aggregate(quiet, []wallet.Entry{noDef, entry("genesis_wallet", "G")}, params)
	require.True(t, fault.Is(err, fault.MissingArtifact))
}

func TestAggregateGenesisWalletNeedsNoDefinition(t *testing.T) {
	g := entry("genesis_wallet", "G")
	g.Descriptor.Definition = nil
	_, err := Aggregate(quiet, []wallet.Entry{entry("witness_1", "A"), g}, params)
	require.NoError(t, err)
}

func TestSortWitnessesStable(t *testing.T) {
	in := []string{"abc", "ABC", "Abc"}
	SortWitnesses(in)
	require.Equal(t, []string{"abc", "ABC", "Abc"}, in)
}

func TestWriteConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis_input_data.json")
	entries := []wallet.Entry{entry("witness_1", "W1"), entry("genesis_wallet", "G")}

	doc, err := WriteConfiguration(quiet, entries, params, path)
	require.NoError(t, err)

	back, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, doc.InitialWitnesses, back.InitialWitnesses)
	require.Equal(t, doc.PayoutAddress, back.PayoutAddress)

	_, err = WriteConfiguration(quiet, entries, params, filepath.Join(t.TempDir(), "missing", "x.json"))
	require.True(t, fault.Is(err, fault.Filesystem))

	_, err = os.Stat(path)
	require.NoError(t, err)
}
