package quiz

import (
	"context"

	"github.com/abhisek/lexiq/internal/store"
)

// IsExhausted reports whether every entry of pool has been drawn in the
// current cycle. An empty pool is never exhausted.
func IsExhausted(ctx context.Context, repo store.EntryRepo, pool store.Pool) (bool, error) {
	eligible, err := repo.CountEligible(ctx, pool)
	if err != nil {
		return false, err
	}
	if eligible == 0 {
		return false, nil
	}
	drawn, err := repo.CountDrawn(ctx, pool)
	if err != nil {
		return false, err
	}
	return drawn >= eligible, nil
}

// Sweep starts a new rotation cycle for pool if the current one is
// exhausted. The check and the reset share one transaction, so a cycle
// extended by a concurrent writer is never reset. Reports whether a reset
// happened. Safe to call any number of times.
func Sweep(ctx context.Context, repo store.EntryRepo, pool store.Pool) (bool, error) {
	var reset bool
	err := repo.RunInTx(ctx, func(tx store.EntryRepo) error {
		exhausted, err := IsExhausted(ctx, tx, pool)
		if err != nil || !exhausted {
			return err
		}
		reset = true
		return tx.ResetRotation(ctx, pool)
	})
	if err != nil {
		return false, err
	}
	return reset, nil
}

// CycleProgress returns how many entries of pool were drawn in the current
// cycle and how many belong to it.
func CycleProgress(ctx context.Context, repo store.EntryRepo, pool store.Pool) (drawn, eligible int, err error) {
	err = repo.RunInTx(ctx, func(tx store.EntryRepo) error {
		if eligible, err = tx.CountEligible(ctx, pool); err != nil {
			return err
		}
		drawn, err = tx.CountDrawn(ctx, pool)
		return err
	})
	return drawn, eligible, err
}
