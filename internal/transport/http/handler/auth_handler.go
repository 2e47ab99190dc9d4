package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker/internal/service"
	httpez "task-tracker/internal/transport/http/ez"
)

type AuthHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewAuthHandler(users *service.UserService, l *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: l}
}

type userOut struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenOut struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// Mount registers /register and /login on g (normally /auth). Neither requires a token.
func (h *AuthHandler) Mount(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[service.RegisterInput, userOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (userOut, error) {
			u, err := h.users.Register(c.Request.Context(), *in)
			if err != nil {
				return userOut{}, err
			}
			return userOut{ID: u.ID, Username: u.Username, FullName: u.FullName, CreatedAt: u.CreatedAt}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.LoginInput, tokenOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (tokenOut, error) {
			tok, err := h.users.Login(c.Request.Context(), *in)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok, TokenType: "bearer"}, nil
		},
	})
}
