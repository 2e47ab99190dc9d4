package ez

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"task-tracker/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{BadRequest("bad id"), http.StatusBadRequest, "bad id"},
		{domain.Invalid("title", "is required"), http.StatusBadRequest, "title: is required"},
		{domain.ErrDuplicateUsername, http.StatusBadRequest, "Username exists"},
		{domain.ErrInvalidGroupBy, http.StatusBadRequest, "Invalid group_by"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "Invalid token"},
		{fmt.Errorf("update task 3: %w", domain.ErrTaskNotFound), http.StatusNotFound, "Task not found"},
		{domain.ErrAssigneeNotFound, http.StatusNotFound, "Assignee not found"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		code, msg := StatusOf(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
	}
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func TestRegisterAction(t *testing.T) {
	r := gin.New()
	e := New(r.Group(""), zap.NewNop())
	RegisterAction(e, Action[echoIn, map[string]string]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(_ *gin.Context, in *echoIn) (map[string]string, error) {
			return map[string]string{"name": in.Name}, nil
		},
	})
	RegisterAction(e, Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/thing",
		Binder: BindNone,
		Status: http.StatusNoContent,
		Handler: func(*gin.Context, *struct{}) (struct{}, error) {
			return struct{}{}, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"x"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"x"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/thing", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
