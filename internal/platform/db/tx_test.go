package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeTx struct{ pgx.Tx }

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil for a bare context, got %v", tx)
	}
}

func TestContextWithTx_RoundTrip(t *testing.T) {
	want := &fakeTx{}
	ctx := ContextWithTx(context.Background(), want)
	if got := TxFromContext(ctx); got != pgx.Tx(want) {
		t.Errorf("expected the stored transaction back, got %v", got)
	}
}

func TestWithTx_ReusesContextTx(t *testing.T) {
	outer := &fakeTx{}
	ctx := ContextWithTx(context.Background(), outer)

	var seen pgx.Tx
	err := WithTx(ctx, nil, func(tx pgx.Tx) error {
		seen = tx
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != pgx.Tx(outer) {
		t.Error("expected the context transaction to be reused, not a new one")
	}
}
