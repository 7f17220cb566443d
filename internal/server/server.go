package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"taskdeck/internal/api/controller"
	"taskdeck/internal/auth"
	"taskdeck/internal/hub"
	"taskdeck/internal/middleware"
)

var meter = otel.Meter("server")

// Server wires the controllers and the event hub into a Gin engine.
type Server struct {
	engine         *gin.Engine
	hub            *hub.Hub
	tokens         *auth.TokenService
	authController *controller.AuthController
	taskController *controller.TaskController
	requests       metric.Int64Counter
}

// NewServer builds the route table. The hub may be nil, in which case the
// /ws endpoint is not registered.
func NewServer(h *hub.Hub, tokens *auth.TokenService, ac *controller.AuthController, tc *controller.TaskController) *Server {
	s := &Server{
		hub:            h,
		tokens:         tokens,
		authController: ac,
		taskController: tc,
	}

	counter, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests handled, by route."))
	if err == nil {
		s.requests = counter
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.countRequests)

	engine.GET("/health", handleHealthCheck)

	engine.POST("/signup", ac.Signup)
	engine.POST("/signin", ac.Signin)

	protected := engine.Group("/", middleware.RequireAuth(tokens))
	protected.POST("/add-task", tc.Add)
	protected.GET("/view-task", tc.View)
	protected.PATCH("/complete-task/:id", tc.Complete)
	protected.PATCH("/edit-task/:id", tc.Edit)
	protected.DELETE("/delete-task/:id", tc.Delete)

	if h != nil {
		engine.GET("/ws", s.handleWebSocket)
	}

	s.engine = engine
	return s
}

// Engine returns the underlying Gin engine, ready for http.Server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) countRequests(c *gin.Context) {
	c.Next()
	if s.requests == nil {
		return
	}
	s.requests.Add(c.Request.Context(), 1,
		metric.WithAttributes(
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", c.Writer.Status()),
		))
}

func handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
