//go:build integration

package inbox_repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankdemo/internal/domain"
	"bankdemo/internal/infrastructure/database/dbtest"
)

func TestInboxRepository_Integration(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewInboxRepository()

	msg := &domain.InboxMessage{
		ID:         "evt-1",
		KafkaTopic: "deposit_requests",
		Payload:    []byte(`{"event_id":"evt-1"}`),
		Status:     domain.InboxStatusNew,
		ReceivedAt: time.Now(),
	}
	require.NoError(t, repo.CreateMessageTx(ctx, db, msg))
	assert.ErrorIs(t, repo.CreateMessageTx(ctx, db, msg), domain.ErrMessageAlreadyProcessed)

	require.NoError(t, repo.UpdateStatusTx(ctx, db, "evt-1", domain.InboxStatusProcessed))
	assert.Error(t, repo.UpdateStatusTx(ctx, db, "missing", domain.InboxStatusProcessed))

	var status string
	var processed bool
	require.NoError(t, db.QueryRow(`SELECT status, processed_at IS NOT NULL FROM inbox_messages WHERE id = 'evt-1'`).Scan(&status, &processed))
	assert.Equal(t, "PROCESSED", status)
	assert.True(t, processed)
}
