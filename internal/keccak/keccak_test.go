package keccak

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestSumVectors(t *testing.T) {
	vec := []struct {
		id   string
		in   []byte
		want string
	}{
		{"empty", nil, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{"abc", []byte("abc"), "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
	}

	for _, v := range vec {
		got := Sum(v.in)
		require.Equal(t, v.want, hexutil.Encode(got[:]), v.id)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis_input_data.json")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	got, err := File(path)
	require.NoError(t, err)
	require.Equal(t, Sum([]byte("abc")), got)

	_, err = File(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
