package keccak

import (
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Sum returns the legacy Keccak-256 digest of b.
func Sum(b []byte) common.Hash {
	return crypto.Keccak256Hash(b)
}

// File returns the Keccak-256 digest of the file at path.
// Used to fingerprint staged artifacts in logs and inspection output.
func File(path string) (common.Hash, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return common.Hash{}, err
	}
	return Sum(b), nil
}
