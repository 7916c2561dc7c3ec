// Package genesis aggregates wallet descriptors into the genesis input
// document and drives the external tool that turns it into a network config.
package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// WitnessDefinition is one entry of initial_witnesses_definition.
type WitnessDefinition struct {
	Address        string          `json:"address"`
	Definition     json.RawMessage `json:"definition"`
	Passphrase     string          `json:"passphrase"`
	MnemonicPhrase string          `json:"mnemonic_phrase"`
}

// InputDocument is genesis_input_data.json. Field order is the file's key
// order.
//
// InitialWitnesses is sorted case-insensitively. InitialWitnessesDefinition
// stays in provisioning order and is not positionally aligned with it;
// consumers must match entries by address.
type InputDocument struct {
	PayoutAddress              string              `json:"payout_address"`
	InitialWitnesses           []string            `json:"initial_witnesses"`
	InitialWitnessesDefinition []WitnessDefinition `json:"initial_witnesses_definition"`
	Version                    string              `json:"version"`
	InitialPeers               []string            `json:"initial_peers"`
	CreationMessage            string              `json:"creation_message"`
}

// Encode renders doc with four-space indentation. Non-ASCII text and HTML
// characters are written literally.
func Encode(doc *InputDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(normalize(doc)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// normalize replaces nil slices so they encode as [] rather than null.
func normalize(doc *InputDocument) *InputDocument {
	d := *doc
	if d.InitialWitnesses == nil {
		d.InitialWitnesses = []string{}
	}
	if d.InitialWitnessesDefinition == nil {
		d.InitialWitnessesDefinition = []WitnessDefinition{}
	}
	if d.InitialPeers == nil {
		d.InitialPeers = []string{}
	}
	return &d
}

// Write encodes doc to path.
func Write(doc *InputDocument, path string) error {
	b, err := Encode(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Load reads a genesis input document.
func Load(path string) (*InputDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc InputDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return &doc, nil
}
