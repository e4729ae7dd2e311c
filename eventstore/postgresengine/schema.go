package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	event_type TEXT NOT NULL,
	occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_event_type ON %[1]s(event_type);
CREATE INDEX IF NOT EXISTS idx_%[1]s_occurred_at ON %[1]s(occurred_at);
CREATE INDEX IF NOT EXISTS idx_%[1]s_payload_gin ON %[1]s USING gin(payload jsonb_path_ops);
CREATE INDEX IF NOT EXISTS idx_%[1]s_metadata_gin ON %[1]s USING gin(metadata jsonb_path_ops);
`

const logMsgSchemaCreated = "schema ensured"

// CreateSchema creates the events table and its indexes if they do not exist yet.
// It is idempotent and safe to run on every start.
func (es EventStore) CreateSchema(ctx context.Context) error {
	statement := fmt.Sprintf(schemaTemplate, es.eventTableName)

	if _, err := es.db.Exec(ctx, statement); err != nil {
		es.logError(logMsgDBExecFailed, logAttrError, err.Error())
		return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
	}

	es.logOperation(logMsgSchemaCreated, "table", es.eventTableName)

	return nil
}
