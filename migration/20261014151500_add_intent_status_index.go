package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddIntentStatusIndex, downAddIntentStatusIndex)
}

// Pending intents are looked up by status when a wallet is reconciled.
func upAddIntentStatusIndex(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE INDEX idx_intents_status ON intents(wallet_id, status);`)
	return err
}

func downAddIntentStatusIndex(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP INDEX IF EXISTS idx_intents_status;`)
	return err
}
