package witness

import (
	"context"
	"strconv"

	"github.com/katringoogoo/byteball-genesis/pkg/staging"
	"github.com/katringoogoo/byteball-genesis/pkg/wallet"
)

// Prefix starts every witness wallet name; aggregation partitions on it.
const Prefix = "witness_"

// Name returns the wallet name of the i-th witness (1 based).
func Name(i int) string { return Prefix + strconv.Itoa(i) }

// Provisioner is the part of *wallet.Provisioner the builder needs.
type Provisioner interface {
	Provision(ctx context.Context, name string, area *staging.Area, moveAppData bool) (*wallet.Descriptor, error)
}
