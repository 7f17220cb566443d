package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"taskdeck/internal/api/response"
	"taskdeck/internal/hub"
)

var tracer = otel.Tracer("server")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebSocket authenticates the caller and attaches the connection to
// the hub, which then streams the caller's own task events. Browsers
// cannot set headers on websocket dials, so the token travels in the
// query string and goes through the same verify path as the
// Authorization header.
func (s *Server) handleWebSocket(c *gin.Context) {
	_, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.Path),
	))
	defer span.End()

	tokenString := c.Query("token")
	if tokenString == "" {
		response.Error(c, http.StatusUnauthorized, "token required")
		return
	}

	username, err := s.tokens.Verify(tokenString)
	if err != nil {
		response.Error(c, http.StatusForbidden, "invalid token")
		return
	}
	span.SetAttributes(attribute.String("user.name", username))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upgrade connection")
		return
	}

	client := hub.NewClient(s.hub, conn, username)
	s.hub.Register(client)
	client.Start()
}
