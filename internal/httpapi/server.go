// Package httpapi exposes the task list over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"todo/internal/service"
	"todo/internal/task"
)

// ShutdownTimeout bounds graceful shutdown once the context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server serves the task list API.
type Server struct {
	e   *echo.Echo
	log logrus.FieldLogger
}

// New creates a server with all routes registered on a fresh Echo instance.
func New(svc service.Service, log logrus.FieldLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))

	Register(e, svc, log)
	return &Server{e: e, log: log}
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.e.Start(addr)
	}()
	s.log.WithField("addr", addr).Info("serving task API")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, svc service.Service, log logrus.FieldLogger) {
	h := &handlers{svc: svc, log: log}
	e.GET("/tasks", h.listTasks)
	e.POST("/tasks", h.createTask)
	e.GET("/tasks/:id", h.getTask)
	e.POST("/tasks/:id/complete", h.completeTask)
	e.POST("/tasks/:id/reopen", h.reopenTask)
	e.PUT("/tasks/:id/priority", h.setPriority)
	e.PUT("/tasks/:id/name", h.renameTask)
	e.DELETE("/tasks/:id", h.deleteTask)
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	})
}

type handlers struct {
	svc service.Service
	log logrus.FieldLogger
}

type createRequest struct {
	Name     string `json:"name"`
	Priority string `json:"priority"`
}

type priorityRequest struct {
	Priority string `json:"priority"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) listTasks(c echo.Context) error {
	tasks, err := h.svc.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *handlers) getTask(c echo.Context) error {
	t, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *handlers) createTask(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	priority := task.High
	if req.Priority != "" {
		p, err := task.ParsePriority(req.Priority)
		if err != nil {
			return h.fail(c, err)
		}
		priority = p
	}

	t, err := h.svc.Add(c.Request().Context(), req.Name, priority)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *handlers) completeTask(c echo.Context) error {
	return h.updateAndReturn(c, h.svc.Complete)
}

func (h *handlers) reopenTask(c echo.Context) error {
	return h.updateAndReturn(c, h.svc.Reopen)
}

func (h *handlers) setPriority(c echo.Context) error {
	var req priorityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	priority, err := task.ParsePriority(req.Priority)
	if err != nil {
		return h.fail(c, err)
	}
	return h.updateAndReturn(c, func(ctx context.Context, id string) error {
		return h.svc.SetPriority(ctx, id, priority)
	})
}

func (h *handlers) renameTask(c echo.Context) error {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	return h.updateAndReturn(c, func(ctx context.Context, id string) error {
		return h.svc.Rename(ctx, id, req.Name)
	})
}

func (h *handlers) deleteTask(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// updateAndReturn applies op to the task in the path and responds with the
// task's new state.
func (h *handlers) updateAndReturn(c echo.Context, op func(context.Context, string) error) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := op(ctx, id); err != nil {
		return h.fail(c, err)
	}
	t, err := h.svc.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// fail maps service errors to status codes.
func (h *handlers) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmptyName), errors.Is(err, task.ErrInvalidPriority):
		status = http.StatusBadRequest
	default:
		h.log.WithError(err).WithField("uri", c.Request().RequestURI).Error("task operation failed")
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}
