package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"task-tracker/internal/domain"
)

var chartRenders = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "analytics_chart_renders_total", Help: "Chart render attempts by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(chartRenders) }

type ChartRenderer interface {
	Render(groups []domain.GroupCount, groupBy domain.GroupBy) ([]byte, error)
}

// ChartCache is satisfied by *cache.Cache.
type ChartCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
}

type AnalyticsService struct {
	tasks    domain.TaskRepository
	renderer ChartRenderer
	cache    ChartCache
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewAnalyticsService accepts a nil renderer (charts always absent) and a nil cache.
func NewAnalyticsService(tasks domain.TaskRepository, renderer ChartRenderer, cache ChartCache, cacheTTL time.Duration, log *zap.Logger) *AnalyticsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsService{tasks: tasks, renderer: renderer, cache: cache, cacheTTL: cacheTTL, log: log}
}

// Aggregate counts all tasks grouped by the given dimension, sorted by label
// (numerically for assignee ids).
// An unknown dimension fails before storage is read.
func (s *AnalyticsService) Aggregate(ctx context.Context, groupBy string) (domain.Report, error) {
	dim, err := domain.ParseGroupBy(groupBy)
	if err != nil {
		return domain.Report{}, err
	}
	tasks, err := s.tasks.List(ctx, domain.TaskFilter{})
	if err != nil {
		return domain.Report{}, fmt.Errorf("load tasks: %w", err)
	}

	counts := make(map[string]int)
	for _, t := range tasks {
		counts[labelOf(t, dim)]++
	}
	data := make([]domain.GroupCount, 0, len(counts))
	for label, n := range counts {
		data = append(data, domain.GroupCount{Label: label, Count: n})
	}
	sort.Slice(data, func(i, j int) bool { return labelLess(dim, data[i].Label, data[j].Label) })

	return domain.Report{GroupBy: dim, Total: len(tasks), Data: data}, nil
}

// Report is Aggregate plus, when withChart is set, a best-effort chart.
func (s *AnalyticsService) Report(ctx context.Context, groupBy string, withChart bool) (domain.Report, error) {
	r, err := s.Aggregate(ctx, groupBy)
	if err != nil {
		return domain.Report{}, err
	}
	if withChart {
		r.Chart = s.RenderChart(ctx, r.Data, r.GroupBy)
	}
	return r, nil
}

// RenderChart never fails: a missing renderer, empty groups or a render error all
// yield nil.
func (s *AnalyticsService) RenderChart(ctx context.Context, groups []domain.GroupCount, groupBy domain.GroupBy) []byte {
	if len(groups) == 0 || s.renderer == nil {
		chartRenders.WithLabelValues("skipped").Inc()
		return nil
	}
	render := func(context.Context) ([]byte, error) { return s.renderer.Render(groups, groupBy) }

	var (
		png []byte
		err error
	)
	if s.cache != nil {
		png, err = s.cache.GetOrLoad(ctx, chartKey(groups, groupBy), s.cacheTTL, render)
	} else {
		png, err = render(ctx)
	}
	if err != nil {
		chartRenders.WithLabelValues("error").Inc()
		s.log.Warn("chart render failed", zap.String("group_by", string(groupBy)), zap.Error(err))
		return nil
	}
	chartRenders.WithLabelValues("ok").Inc()
	return png
}

func labelOf(t domain.Task, dim domain.GroupBy) string {
	switch dim {
	case domain.GroupByTopic:
		if t.Topic == nil || *t.Topic == "" {
			return domain.UnspecifiedTopic
		}
		return *t.Topic
	case domain.GroupByAssignee:
		if t.AssigneeID == nil {
			return "0"
		}
		return strconv.FormatInt(*t.AssigneeID, 10)
	default:
		return string(t.Status)
	}
}

// labelLess orders assignee labels by id and everything else lexically.
func labelLess(dim domain.GroupBy, a, b string) bool {
	if dim == domain.GroupByAssignee {
		x, errA := strconv.ParseInt(a, 10, 64)
		y, errB := strconv.ParseInt(b, 10, 64)
		if errA == nil && errB == nil {
			return x < y
		}
	}
	return a < b
}

// chartKey addresses the rendered image by its input, so cached entries never go stale.
func chartKey(groups []domain.GroupCount, groupBy domain.GroupBy) string {
	h := sha256.New()
	h.Write([]byte(groupBy))
	for _, g := range groups {
		fmt.Fprintf(h, "\x00%s\x00%d", g.Label, g.Count)
	}
	return "chart:" + string(groupBy) + ":" + hex.EncodeToString(h.Sum(nil))
}
