package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatchDecode(t *testing.T) {
	var p TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","topic":null}`), &p))

	assert.True(t, p.Title.Set)
	assert.False(t, p.Title.Null)
	assert.Equal(t, "x", p.Title.Value)

	assert.True(t, p.Topic.Set)
	assert.True(t, p.Topic.Null)

	assert.False(t, p.Description.Set)
	assert.False(t, p.Status.Set)
	assert.False(t, p.AssigneeID.Set)
}

func TestTaskPatchApply(t *testing.T) {
	desc, topic, assignee := "d", "ops", int64(7)
	cur := Task{
		ID: 1, Title: "old", Description: &desc, Status: StatusNew,
		Topic: &topic, AssigneeID: &assignee,
	}

	next := TaskPatch{Status: Some(StatusDone), Topic: Null[string]()}.Apply(cur)

	assert.Equal(t, "old", next.Title)
	assert.Equal(t, StatusDone, next.Status)
	assert.Nil(t, next.Topic)
	require.NotNil(t, next.Description)
	assert.Equal(t, "d", *next.Description)
	require.NotNil(t, next.AssigneeID)
	assert.Equal(t, int64(7), *next.AssigneeID)

	// the input is not modified
	assert.Equal(t, StatusNew, cur.Status)
	assert.NotNil(t, cur.Topic)
}

func TestOptionalPtr(t *testing.T) {
	assert.Nil(t, Optional[int64]{}.Ptr())
	assert.Nil(t, Null[int64]().Ptr())
	p := Some[int64](3).Ptr()
	require.NotNil(t, p)
	assert.Equal(t, int64(3), *p)
}

func TestParseGroupBy(t *testing.T) {
	for _, s := range []string{"status", "topic", "assignee"} {
		g, err := ParseGroupBy(s)
		require.NoError(t, err)
		assert.Equal(t, GroupBy(s), g)
	}
	_, err := ParseGroupBy("priority")
	assert.ErrorIs(t, err, ErrInvalidGroupBy)
}

func TestNotFoundKinds(t *testing.T) {
	assert.ErrorIs(t, ErrTaskNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrAssigneeNotFound, ErrNotFound)
	assert.NotErrorIs(t, ErrTaskNotFound, ErrAssigneeNotFound)
	assert.ErrorIs(t, Invalid("title", "is required"), ErrValidation)
}
