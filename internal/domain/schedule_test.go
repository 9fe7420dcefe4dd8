package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleActionValid(t *testing.T) {
	for _, a := range []ScheduleAction{ActionPublish, ActionUnpublish, ActionArchive, ActionDelete} {
		assert.True(t, a.Valid(), string(a))
	}
	assert.False(t, ScheduleAction("").Valid())
	assert.False(t, ScheduleAction("promote").Valid())
}

func TestScheduleActionTargetStatus(t *testing.T) {
	assert.Equal(t, ContentStatusPublished, ActionPublish.TargetStatus())
	assert.Equal(t, ContentStatusDraft, ActionUnpublish.TargetStatus())
	assert.Equal(t, ContentStatusArchived, ActionArchive.TargetStatus())
	assert.Empty(t, ActionDelete.TargetStatus())
}

func TestScheduleStatusTerminal(t *testing.T) {
	assert.False(t, ScheduleStatusPending.Terminal())
	assert.True(t, ScheduleStatusExecuted.Terminal())
	assert.True(t, ScheduleStatusFailed.Terminal())
	assert.True(t, ScheduleStatusCancelled.Terminal())
}
