package wallet

import (
	"encoding/json"
	"fmt"
	"os"
)

// Descriptor is the <name>.json file the wallet tool writes.
type Descriptor struct {
	DeviceName     string          `json:"deviceName"`
	MnemonicPhrase string          `json:"mnemonic_phrase"` // sensitive
	Passphrase     string          `json:"passphrase"`      // sensitive
	Address        string          `json:"address"`
	Definition     json.RawMessage `json:"definition"` // opaque, tool specific
	AppDataDir     string          `json:"appDataDir"`
}

// Entry pairs a generated wallet name with its descriptor.
type Entry struct {
	Name       string
	Descriptor *Descriptor
}

// Load reads a descriptor file.
func Load(path string) (*Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return &d, nil
}

// HasDefinition reports whether the tool produced a non-null definition.
func (d *Descriptor) HasDefinition() bool {
	return len(d.Definition) > 0 && string(d.Definition) != "null"
}
