package genesis

import (
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/katringoogoo/byteball-genesis/internal/fault"
	"github.com/katringoogoo/byteball-genesis/pkg/wallet"
)

// Params carries the pass-through network metadata and the naming
// conventions used to partition the descriptors.
type Params struct {
	WitnessPrefix     string
	GenesisWalletName string
	Version           string
	InitialPeers      []string
	CreationMessage   string
}

// Aggregate builds the genesis input document from entries, which must be
// in provisioning order. Entries whose name starts with WitnessPrefix form
// the witness set; GenesisWalletName supplies payout_address.
func Aggregate(l log.Logger, entries []wallet.Entry, p Params) (*InputDocument, error) {
	l.Info("Transforming configuration ...")

	var payout *wallet.Descriptor
	addresses := make([]string, 0, len(entries))
	definitions := make([]WitnessDefinition, 0, len(entries))
	for _, e := range entries {
		if e.Name == p.GenesisWalletName {
			payout = e.Descriptor
		}
		if !strings.HasPrefix(e.Name, p.WitnessPrefix) {
			continue
		}
		d := e.Descriptor
		if d == nil || d.Address == "" {
			return nil, fault.Newf(fault.MissingArtifact, "aggregate", "%s has no address", e.Name)
		}
		if !d.HasDefinition() {
			return nil, fault.Newf(fault.MissingArtifact, "aggregate", "%s has no definition", e.Name)
		}
		addresses = append(addresses, d.Address)
		definitions = append(definitions, WitnessDefinition{
			Address:        d.Address,
			Definition:     d.Definition,
			Passphrase:     d.Passphrase,
			MnemonicPhrase: d.MnemonicPhrase,
		})
	}
	if payout == nil {
		return nil, fault.Newf(fault.MissingArtifact, "aggregate", "no descriptor for %s", p.GenesisWalletName)
	}
	if payout.Address == "" {
		return nil, fault.Newf(fault.MissingArtifact, "aggregate", "%s has no address", p.GenesisWalletName)
	}

	SortWitnesses(addresses)
	if dups := Duplicates(addresses); len(dups) > 0 {
		l.Warn("Duplicate witness addresses", "addresses", dups)
	}

	peers := p.InitialPeers
	if peers == nil {
		peers = []string{}
	}
	return &InputDocument{
		PayoutAddress:              payout.Address,
		InitialWitnesses:           addresses,
		InitialWitnessesDefinition: definitions,
		Version:                    p.Version,
		InitialPeers:               peers,
		CreationMessage:            p.CreationMessage,
	}, nil
}

// SortWitnesses orders addresses by their upper-cased form. Ties keep their
// input order.
// Addresses are base32, so ASCII case folding is assumed.
func SortWitnesses(addresses []string) {
	slices.SortStableFunc(addresses, func(a, b string) int {
		return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
	})
}

// Duplicates returns addresses that occur more than once, in first-seen
// order. Comparison is exact.
func Duplicates(addresses []string) []string {
	seen := make(map[string]int, len(addresses))
	var dups []string
	for _, a := range addresses {
		seen[a]++
		if seen[a] == 2 {
			dups = append(dups, a)
		}
	}
	return dups
}

// WriteConfiguration aggregates entries and persists the result to path.
func WriteConfiguration(l log.Logger, entries []wallet.Entry, p Params, path string) (*InputDocument, error) {
	doc, err := Aggregate(l, entries, p)
	if err != nil {
		return nil, err
	}
	l.Info("Writing configuration file", "path", path)
	if err := Write(doc, path); err != nil {
		return nil, fault.New(fault.Filesystem, "write "+path, err)
	}
	return doc, nil
}
