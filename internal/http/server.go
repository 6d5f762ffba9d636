// README: API gateway; registers HTTP routes and delegates to the quote pipeline.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freight/internal/http/handlers"
	"freight/internal/http/middleware"
)

type ServerDeps struct {
	Quoter         handlers.Quoter
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Server struct {
	quoter         handlers.Quoter
	requestTimeout time.Duration
	corsOrigins    []string
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		quoter:         deps.Quoter,
		requestTimeout: deps.RequestTimeout,
		corsOrigins:    deps.CORSOrigins,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.Timeout(s.requestTimeout),
	)

	base := handlers.NewBaseHandler()
	r.GET("/", base.Home)
	r.GET("/health", base.Health)

	api := r.Group("/api", middleware.CORS(s.corsOrigins))
	quote := handlers.NewQuoteHandler(s.quoter)
	api.GET("/predict", quote.Predict)
	api.POST("/predict", quote.Predict)
	// preflight is answered by the CORS middleware
	api.OPTIONS("/predict", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}
