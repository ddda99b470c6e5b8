package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jwt-todo/internal/domain"
	"jwt-todo/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth   service.AuthService
	users  service.UserService
	todos  service.TodoService
	logger *logrus.Logger
}

func NewHandler(auth service.AuthService, users service.UserService, todos service.TodoService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		auth:   auth,
		users:  users,
		todos:  todos,
		logger: logger,
	}
}

// RegisterRoutes mounts the API. Every identity-scoped route goes through withUser.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	if err := registerValidators(); err != nil {
		h.logger.Warnf("register validators: %v", err)
	}

	router.Use(corsMiddleware(), h.requestLogger())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.POST("/user", h.createUser)
	router.GET("/login", h.login)

	users := router.Group("/user")
	{
		users.GET("", h.withUser(h.listUsers))
		users.GET("/:public_id", h.withUser(h.getUser))
		users.PUT("/:public_id", h.withUser(h.promoteUser))
		users.DELETE("/:public_id", h.withUser(h.deleteUser))
	}

	todos := router.Group("/todo")
	{
		todos.GET("", h.withUser(h.listTodos))
		todos.GET("/:id", h.withUser(h.getTodo))
		todos.POST("", h.withUser(h.createTodo))
		todos.PUT("/:id", h.withUser(h.completeTodo))
		todos.DELETE("/:id", h.withUser(h.deleteTodo))
	}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

type createTodoRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+TokenHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user created successfully",
		"user":    userToResponse(*user),
	})
}

func (h *Handler) login(c *gin.Context) {
	name, password, _ := c.Request.BasicAuth()

	session, err := h.auth.Login(c.Request.Context(), name, password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationInvalid) {
			h.logger.WithField("reason", err.Error()).Info("login rejected")
			c.Header("WWW-Authenticate", `Basic realm="Login required!"`)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "could not verify"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) listUsers(c *gin.Context, actor *domain.User) {
	users, err := h.users.List(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (h *Handler) getUser(c *gin.Context, actor *domain.User) {
	user, err := h.users.Get(c.Request.Context(), actor, c.Param("public_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(*user)})
}

func (h *Handler) promoteUser(c *gin.Context, actor *domain.User) {
	if err := h.users.Promote(c.Request.Context(), actor, c.Param("public_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user has been promoted to admin"})
}

func (h *Handler) deleteUser(c *gin.Context, actor *domain.User) {
	if err := h.users.Delete(c.Request.Context(), actor, c.Param("public_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user has been deleted"})
}

func (h *Handler) listTodos(c *gin.Context, owner *domain.User) {
	todos, err := h.todos.List(c.Request.Context(), owner)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]TodoResponse, len(todos))
	for i := range todos {
		resp[i] = todoToResponse(todos[i])
	}
	c.JSON(http.StatusOK, gin.H{"todos": resp})
}

func (h *Handler) getTodo(c *gin.Context, owner *domain.User) {
	id, ok := h.todoID(c)
	if !ok {
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), owner, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(*todo))
}

func (h *Handler) createTodo(c *gin.Context, owner *domain.User) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), owner, req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "todo created",
		"todo":    todoToResponse(*todo),
	})
}

func (h *Handler) completeTodo(c *gin.Context, owner *domain.User) {
	id, ok := h.todoID(c)
	if !ok {
		return
	}

	if err := h.todos.Complete(c.Request.Context(), owner, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "todo item has been completed"})
}

func (h *Handler) deleteTodo(c *gin.Context, owner *domain.User) {
	id, ok := h.todoID(c)
	if !ok {
		return
	}

	if err := h.todos.Delete(c.Request.Context(), owner, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "todo item deleted"})
}

// todoID parses the :id parameter. Unparseable ids answer exactly like
// missing todos.
func (h *Handler) todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(c, fmt.Errorf("%w: todo", service.ErrNotFound))
		return 0, false
	}
	return id, true
}

type UserResponse struct {
	ID        int64  `json:"id"`
	PublicID  string `json:"public_id"`
	Name      string `json:"name"`
	Admin     bool   `json:"admin"`
	CreatedAt string `json:"created_at"`
}

type TodoResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		PublicID:  user.PublicID,
		Name:      user.Name,
		Admin:     user.Admin,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func todoToResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		Text:      todo.Text,
		Completed: todo.Completed,
	}
}
