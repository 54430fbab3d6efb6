package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/database"
	"github.com/newwork/people-service/pkg/testutil"
)

func newFeedbackRepo(t *testing.T) (*repository.FeedbackRepository, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })
	return repository.NewFeedbackRepository(&database.DB{DB: mockDB.DB}), mockDB
}

func TestListVisibleForTargetBindsViewerAndTarget(t *testing.T) {
	repo, mockDB := newFeedbackRepo(t)

	rows := testutil.MockRows("id", "author_id", "recipient_id", "text", "ai_polished", "created_at").
		AddRow("fb-1", "author-1", "target-1", "great work", false, time.Now())

	// $1 is the viewer, $2 the target; visibility is decided in SQL.
	mockDB.ExpectQuery("JOIN users recipient ON recipient.id = f.recipient_id").
		WithArgs("viewer-1", "target-1").
		WillReturnRows(rows)

	feedback, err := repo.ListVisibleForTarget(context.Background(), "viewer-1", "target-1")
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Equal(t, "fb-1", feedback[0].ID)

	mockDB.ExpectationsWereMet(t)
}

func TestListVisibleForTargetEmptyForStranger(t *testing.T) {
	repo, mockDB := newFeedbackRepo(t)

	mockDB.ExpectQuery("JOIN users recipient ON recipient.id = f.recipient_id").
		WithArgs("stranger-1", "target-1").
		WillReturnRows(testutil.MockRows("id", "author_id", "recipient_id", "text", "ai_polished", "created_at"))

	feedback, err := repo.ListVisibleForTarget(context.Background(), "stranger-1", "target-1")
	require.NoError(t, err)
	assert.Empty(t, feedback)

	mockDB.ExpectationsWereMet(t)
}

func TestCreateFeedbackAssignsIDAndTimestamp(t *testing.T) {
	repo, mockDB := newFeedbackRepo(t)

	created := time.Now()
	mockDB.ExpectQuery("INSERT INTO feedback").
		WithArgs(testutil.AnyUUID{}, "author-1", "target-1", "solid delivery", true).
		WillReturnRows(testutil.MockRows("created_at").AddRow(created))

	fb := &repository.Feedback{
		AuthorID:    "author-1",
		RecipientID: "target-1",
		Text:        "solid delivery",
		AIPolished:  true,
	}

	require.NoError(t, repo.Create(context.Background(), fb))
	assert.NotEmpty(t, fb.ID)
	assert.WithinDuration(t, created, fb.CreatedAt, time.Second)

	mockDB.ExpectationsWereMet(t)
}
