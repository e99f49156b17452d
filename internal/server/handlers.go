package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/internal/progress"
	"brewboxes/pkg/desktop"
)

// Response is the JSON body of non-streaming endpoints.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type lifecycleRequest struct {
	ContainerID string `json:"containerId"`
	Force       bool   `json:"force"`
}

type healthResponse struct {
	Status string `json:"status"`
	Engine string `json:"engine,omitempty"`
}

// streamBuffer is how many events may queue between the pipeline and the writer.
const streamBuffer = 16

func (s *Server) handleLaunch(c echo.Context) error {
	var spec desktop.LaunchSpec
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
	}
	if err := s.deps.App.ValidateSpec(spec); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Success: false, Message: brewerrors.Message(err)})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	// The pipeline outlives the client: a disconnect only stops the writes.
	reqCtx := c.Request().Context()
	stream := progress.NewStream("", streamBuffer)
	go func() {
		defer stream.Close()
		_, _ = s.deps.App.Launch(context.WithoutCancel(reqCtx), spec, stream)
	}()

	connected := true
	for event := range stream.Events() {
		if !connected {
			continue
		}
		if reqCtx.Err() != nil {
			slog.Warn("Launch client disconnected, draining stream", "launchId", event.LaunchID)
			connected = false
			continue
		}
		if err := writeEvent(res, event); err != nil {
			slog.Warn("Failed to write launch event, draining stream", "launchId", event.LaunchID, "error", err)
			connected = false
		}
	}
	return nil
}

// writeEvent writes one server-sent event.
func writeEvent(res *echo.Response, event progress.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

func (s *Server) handleStop(c echo.Context) error {
	var req lifecycleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
	}

	// Engine calls run to completion even if the client goes away.
	if err := s.deps.App.Stop(context.WithoutCancel(c.Request().Context()), req.ContainerID); err != nil {
		return c.JSON(statusFor(err), Response{Success: false, Message: brewerrors.Message(err)})
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Container stopped successfully"})
}

func (s *Server) handleDelete(c echo.Context) error {
	var req lifecycleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
	}

	if err := s.deps.App.Delete(context.WithoutCancel(c.Request().Context()), req.ContainerID, req.Force); err != nil {
		return c.JSON(statusFor(err), Response{Success: false, Message: brewerrors.Message(err)})
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Container deleted successfully"})
}

func (s *Server) handleContainers(c echo.Context) error {
	if s.deps.Inventory == nil {
		return c.JSON(http.StatusServiceUnavailable, Response{Success: false, Message: "Container inventory unavailable"})
	}

	containers, err := s.deps.Inventory.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, Response{Success: false, Message: brewerrors.Message(err)})
	}
	return c.JSON(http.StatusOK, containers)
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := healthResponse{Status: "ok"}
	if s.deps.Engines != nil {
		if kind, ok := s.deps.Engines.Cached(); ok {
			resp.Engine = string(kind)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// statusFor maps an operation error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, brewerrors.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
