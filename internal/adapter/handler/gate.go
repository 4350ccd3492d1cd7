package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GateHandler terminates requests that passed the session gate. Deployed
// behind a reverse proxy in forward-auth mode: the proxy forwards the
// original URI and cookies, the gate middleware decides, and this handler
// acknowledges allowed requests. Identity headers stamped by the gate
// travel back on the response for the proxy to copy upstream.
type GateHandler struct{}

func NewGateHandler() *GateHandler {
	return &GateHandler{}
}

// Handle acknowledges a request the gate allowed through.
func (h *GateHandler) Handle(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
