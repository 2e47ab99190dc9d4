package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker/internal/domain"
	"task-tracker/internal/service"
	httpez "task-tracker/internal/transport/http/ez"
	mdw "task-tracker/internal/transport/http/middleware"
)

type TaskHandler struct {
	tasks     *service.TaskService
	analytics *service.AnalyticsService
	log       *zap.Logger
}

func NewTaskHandler(tasks *service.TaskService, analytics *service.AnalyticsService, l *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, analytics: analytics, log: l}
}

type analyticsQ struct {
	GroupBy   string `form:"group_by,default=status"`
	WithChart bool   `form:"with_chart,default=false"`
}

type analyticsOut struct {
	GroupBy     domain.GroupBy      `json:"group_by"`
	Total       int                 `json:"total"`
	Data        []domain.GroupCount `json:"data"`
	ChartBase64 *string             `json:"chart_base64"`
}

// Mount registers the task routes on g, which must already run the token gate.
func (h *TaskHandler) Mount(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[service.TaskInput, domain.Task]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.TaskInput) (domain.Task, error) {
			t, err := h.tasks.Create(c.Request.Context(), *in)
			if err != nil {
				return domain.Task{}, err
			}
			h.audit(c, "task created", t.ID)
			return t, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Task]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Task, error) {
			f, err := filterFromQuery(c)
			if err != nil {
				return nil, err
			}
			return h.tasks.List(c.Request.Context(), f)
		},
	})

	// static segment; gin matches it ahead of /:id
	httpez.RegisterAction(ez, httpez.Action[analyticsQ, analyticsOut]{
		Method: http.MethodGet,
		Path:   "/analytics",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *analyticsQ) (analyticsOut, error) {
			r, err := h.analytics.Report(c.Request.Context(), in.GroupBy, in.WithChart)
			if err != nil {
				return analyticsOut{}, err
			}
			out := analyticsOut{GroupBy: r.GroupBy, Total: r.Total, Data: r.Data}
			if len(r.Chart) > 0 {
				s := base64.StdEncoding.EncodeToString(r.Chart)
				out.ChartBase64 = &s
			}
			return out, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, domain.Task]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Task, error) {
			id, err := taskID(c)
			if err != nil {
				return domain.Task{}, err
			}
			return h.tasks.Get(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[domain.TaskPatch, domain.Task]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.TaskPatch) (domain.Task, error) {
			id, err := taskID(c)
			if err != nil {
				return domain.Task{}, err
			}
			t, err := h.tasks.Update(c.Request.Context(), id, *in)
			if err != nil {
				return domain.Task{}, err
			}
			h.audit(c, "task updated", id)
			return t, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[domain.TaskStatus, domain.Task]{
		Method: http.MethodPatch,
		Path:   "/:id/status",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.TaskStatus) (domain.Task, error) {
			id, err := taskID(c)
			if err != nil {
				return domain.Task{}, err
			}
			t, err := h.tasks.UpdateStatus(c.Request.Context(), id, *in)
			if err != nil {
				return domain.Task{}, err
			}
			h.audit(c, "task status changed", id, zap.String("status", string(t.Status)))
			return t, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := taskID(c)
			if err != nil {
				return struct{}{}, err
			}
			if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
				return struct{}{}, err
			}
			h.audit(c, "task deleted", id)
			return struct{}{}, nil
		},
	})
}

func (h *TaskHandler) audit(c *gin.Context, msg string, taskID int64, extra ...zap.Field) {
	u, _ := mdw.CurrentUser(c)
	fields := append([]zap.Field{
		zap.Int64("task_id", taskID),
		zap.Int64("user_id", u.ID),
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
	}, extra...)
	h.log.Info(msg, fields...)
}

func taskID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, httpez.BadRequest("task id must be an integer")
	}
	return id, nil
}

// filterFromQuery treats empty query values as absent.
func filterFromQuery(c *gin.Context) (domain.TaskFilter, error) {
	var f domain.TaskFilter
	if v := c.Query("status"); v != "" {
		s := domain.TaskStatus(v)
		f.Status = &s
	}
	if v := c.Query("topic"); v != "" {
		f.Topic = &v
	}
	if v := c.Query("assignee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, httpez.BadRequest("assignee_id must be an integer")
		}
		f.AssigneeID = &id
	}
	f.Search = c.Query("search")
	return f, nil
}
