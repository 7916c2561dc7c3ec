// pkg/witness/builder.go
package witness

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/katringoogoo/byteball-genesis/pkg/staging"
	"github.com/katringoogoo/byteball-genesis/pkg/wallet"
)

// Builder provisions the initial witness set.
type Builder struct {
	Provisioner Provisioner
	Log         log.Logger
	// Jobs bounds concurrent wallet tool runs; values below 2 run sequentially.
	Jobs int
	// MoveAppData selects move (true) or copy (false) relocation.
	MoveAppData bool
}

// Build provisions witness_1..witness_count into area. Entries come back in
// index order whatever order the tools finish in. The first failure cancels
// the remaining work and is returned.
func (b *Builder) Build(ctx context.Context, area *staging.Area, count int) ([]wallet.Entry, error) {
	out := make([]wallet.Entry, count)

	if b.Jobs < 2 {
		for i := range out {
			name := Name(i + 1)
			b.Log.Info("Generating witness", "name", name)
			desc, err := b.Provisioner.Provision(ctx, name, area, b.MoveAppData)
			if err != nil {
				return nil, err
			}
			out[i] = wallet.Entry{Name: name, Descriptor: desc}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Jobs)
	for i := range out {
		name := Name(i + 1)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b.Log.Info("Generating witness", "name", name)
			desc, err := b.Provisioner.Provision(gctx, name, area, b.MoveAppData)
			if err != nil {
				return err
			}
			out[i] = wallet.Entry{Name: name, Descriptor: desc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
