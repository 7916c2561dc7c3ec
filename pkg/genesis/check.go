package genesis

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Check verifies the invariants of a genesis input document. All violations
// are reported, joined.
func Check(doc *InputDocument) error {
	var errs []error
	if doc.PayoutAddress == "" {
		errs = append(errs, errors.New("payout_address is empty"))
	}
	for i := 1; i < len(doc.InitialWitnesses); i++ {
		prev, cur := doc.InitialWitnesses[i-1], doc.InitialWitnesses[i]
		if strings.ToUpper(prev) > strings.ToUpper(cur) {
			errs = append(errs, fmt.Errorf("initial_witnesses not sorted at %d: %s > %s", i, prev, cur))
		}
	}
	if len(doc.InitialWitnessesDefinition) != len(doc.InitialWitnesses) {
		errs = append(errs, fmt.Errorf("%d witnesses but %d definitions",
			len(doc.InitialWitnesses), len(doc.InitialWitnessesDefinition)))
	}
	for _, d := range doc.InitialWitnessesDefinition {
		if !slices.Contains(doc.InitialWitnesses, d.Address) {
			errs = append(errs, fmt.Errorf("definition for %s has no matching witness", d.Address))
		}
		if len(d.Definition) == 0 || string(d.Definition) == "null" {
			errs = append(errs, fmt.Errorf("definition for %s is empty", d.Address))
		}
	}
	if doc.Version == "" {
		errs = append(errs, errors.New("version is empty"))
	}
	return errors.Join(errs...)
}

// CheckNetworkConfig verifies that nc was derived from doc.
func CheckNetworkConfig(doc *InputDocument, nc *NetworkConfig) error {
	var errs []error
	if nc.WitnessCount != len(doc.InitialWitnesses) {
		errs = append(errs, fmt.Errorf("witness_count %d, input has %d witnesses", nc.WitnessCount, len(doc.InitialWitnesses)))
	}
	if nc.Version != doc.Version {
		errs = append(errs, fmt.Errorf("version %q, input has %q", nc.Version, doc.Version))
	}
	if !slices.Equal(nc.InitialWitnesses, doc.InitialWitnesses) {
		errs = append(errs, errors.New("initial_witnesses differ from input"))
	}
	if !slices.Equal(nc.InitialPeers, doc.InitialPeers) {
		errs = append(errs, errors.New("initial_peers differ from input"))
	}
	if nc.GenesisUnitHash == "" {
		errs = append(errs, errors.New("genesis_unit_hash is empty"))
	}
	return errors.Join(errs...)
}
