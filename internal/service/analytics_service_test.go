package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
	"task-tracker/internal/repo"
)

type stubRenderer struct {
	calls int
	err   error
}

func (r *stubRenderer) Render(groups []domain.GroupCount, _ domain.GroupBy) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png"), nil
}

type mapCache struct{ m map[string][]byte }

func (c *mapCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := c.m[key]; ok {
		return b, nil
	}
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.m[key] = b
	return b, nil
}

func seedStatuses(t *testing.T, f fixture, statuses ...domain.TaskStatus) {
	t.Helper()
	for i, st := range statuses {
		_, err := f.tasks.Create(context.Background(), TaskInput{Title: "t" + string(rune('a'+i)), Status: st})
		require.NoError(t, err)
	}
}

func TestAggregateByStatus(t *testing.T) {
	f := newFixture(t)
	seedStatuses(t, f, domain.StatusNew, domain.StatusNew, domain.StatusDone)
	a := NewAnalyticsService(repo.NewTaskRepo(f.db), nil, nil, 0, nil)

	r, err := a.Aggregate(context.Background(), "status")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupByStatus, r.GroupBy)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, []domain.GroupCount{{Label: "done", Count: 1}, {Label: "new", Count: 2}}, r.Data)
}

func TestAggregateDefaultsLabels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "worker")
	for _, in := range []TaskInput{
		{Title: "a", Topic: ptr("ops"), AssigneeID: &u.ID},
		{Title: "b"},
		{Title: "c", Topic: ptr("")},
	} {
		_, err := f.tasks.Create(ctx, in)
		require.NoError(t, err)
	}
	a := NewAnalyticsService(repo.NewTaskRepo(f.db), nil, nil, 0, nil)

	r, err := a.Aggregate(ctx, "topic")
	require.NoError(t, err)
	assert.Equal(t, []domain.GroupCount{{Label: "Unspecified", Count: 2}, {Label: "ops", Count: 1}}, r.Data)

	r, err = a.Aggregate(ctx, "assignee")
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.GroupCount{{Label: "0", Count: 2}, {Label: labelOf(domain.Task{AssigneeID: &u.ID}, domain.GroupByAssignee), Count: 1}}, r.Data)
	assert.Equal(t, 3, r.Total)
}

func TestAggregateAssigneeOrderIsNumeric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var ids []int64
	for _, name := range []string{"u01", "u02", "u03", "u04", "u05", "u06", "u07", "u08", "u09", "u10"} {
		ids = append(ids, f.register(t, name).ID)
	}
	for _, id := range []int64{ids[9], ids[1]} {
		_, err := f.tasks.Create(ctx, TaskInput{Title: "t", AssigneeID: &id})
		require.NoError(t, err)
	}
	_, err := f.tasks.Create(ctx, TaskInput{Title: "unassigned"})
	require.NoError(t, err)

	r, err := NewAnalyticsService(repo.NewTaskRepo(f.db), nil, nil, 0, nil).Aggregate(ctx, "assignee")
	require.NoError(t, err)
	labels := make([]string, 0, len(r.Data))
	for _, g := range r.Data {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"0", strconv.FormatInt(ids[1], 10), strconv.FormatInt(ids[9], 10)}, labels)
}

func TestLabelLess(t *testing.T) {
	assert.True(t, labelLess(domain.GroupByAssignee, "2", "10"))
	assert.False(t, labelLess(domain.GroupByAssignee, "10", "2"))
	assert.True(t, labelLess(domain.GroupByTopic, "10", "2"))
}

func TestAggregateInvalidGroupBy(t *testing.T) {
	a := NewAnalyticsService(nil, nil, nil, 0, nil) // storage must not be touched
	_, err := a.Aggregate(context.Background(), "priority")
	assert.ErrorIs(t, err, domain.ErrInvalidGroupBy)
}

func TestAggregateEmpty(t *testing.T) {
	f := newFixture(t)
	rend := &stubRenderer{}
	a := NewAnalyticsService(repo.NewTaskRepo(f.db), rend, nil, 0, nil)

	r, err := a.Report(context.Background(), "status", true)
	require.NoError(t, err)
	assert.Zero(t, r.Total)
	assert.Empty(t, r.Data)
	assert.Nil(t, r.Chart)
	assert.Zero(t, rend.calls)
}

func TestReportChart(t *testing.T) {
	f := newFixture(t)
	seedStatuses(t, f, domain.StatusNew)
	rend := &stubRenderer{}
	cache := &mapCache{m: map[string][]byte{}}
	a := NewAnalyticsService(repo.NewTaskRepo(f.db), rend, cache, time.Minute, nil)

	r, err := a.Report(context.Background(), "status", false)
	require.NoError(t, err)
	assert.Nil(t, r.Chart)
	assert.Zero(t, rend.calls)

	for range 2 {
		r, err = a.Report(context.Background(), "status", true)
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), r.Chart)
	}
	assert.Equal(t, 1, rend.calls, "second render is served from cache")
	assert.Len(t, cache.m, 1)
}

func TestReportChartFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	seedStatuses(t, f, domain.StatusDone)
	a := NewAnalyticsService(repo.NewTaskRepo(f.db), &stubRenderer{err: errors.New("no fonts")}, nil, 0, nil)

	r, err := a.Report(context.Background(), "status", true)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Total)
	assert.Nil(t, r.Chart)
}

func TestChartKeyDependsOnInput(t *testing.T) {
	g1 := []domain.GroupCount{{Label: "new", Count: 1}}
	g2 := []domain.GroupCount{{Label: "new", Count: 2}}
	assert.Equal(t, chartKey(g1, domain.GroupByStatus), chartKey(g1, domain.GroupByStatus))
	assert.NotEqual(t, chartKey(g1, domain.GroupByStatus), chartKey(g2, domain.GroupByStatus))
	assert.NotEqual(t, chartKey(g1, domain.GroupByStatus), chartKey(g1, domain.GroupByTopic))
}
