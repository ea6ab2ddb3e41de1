// Package gin provides the HTTP API for the extraction engine.
package gin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fwojciec/linkcrawl"
)

// DefaultMaxItems is the item budget applied when a request omits one.
const DefaultMaxItems = 20

// Server exposes the extraction engine and the article store over HTTP.
type Server struct {
	engine *gin.Engine
	srv    *http.Server

	extractor linkcrawl.Extractor
	articles  linkcrawl.ArticleService
	logger    *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithArticleService attaches a store: successful extractions are persisted
// and the listing endpoints become available.
func WithArticleService(svc linkcrawl.ArticleService) ServerOption {
	return func(s *Server) {
		s.articles = svc
	}
}

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server around the given extractor.
func NewServer(extractor linkcrawl.Extractor, opts ...ServerOption) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:    gin.New(),
		extractor: extractor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(gin.Recovery())
	s.registerRoutes()

	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Open starts listening on addr. It returns once the listener goroutine is
// running; serve errors are logged.
func (s *Server) Open(addr string) {
	s.srv = &http.Server{Addr: addr, Handler: s.engine}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server", "err", err)
		}
	}()
	s.logger.Info("http server listening", "addr", addr)
}

// Close shuts the server down, draining in-flight requests.
func (s *Server) Close(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/api/v1")
	v1.POST("/extract", s.handleExtract)
	v1.GET("/articles", s.handleListArticles)
	v1.DELETE("/articles", s.handleDeleteArticle)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extractRequest is the POST /api/v1/extract payload.
type extractRequest struct {
	URL      string `json:"url" binding:"required"`
	MaxItems int    `json:"maxItems"`
}

// handleExtract runs one extraction call and returns the result record.
// Call-level failures still answer 200 with success:false; only malformed
// requests produce an error status.
func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MaxItems <= 0 {
		req.MaxItems = DefaultMaxItems
	}

	result := s.extractor.Extract(c.Request.Context(), &linkcrawl.Request{
		URL:      req.URL,
		MaxItems: req.MaxItems,
	})

	if result.Success && s.articles != nil {
		if err := s.articles.UpsertArticles(c.Request.Context(), result.Articles); err != nil {
			s.logger.Error("persisting extracted articles", "url", req.URL, "err", err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// handleListArticles lists stored articles, newest first.
func (s *Server) handleListArticles(c *gin.Context) {
	if s.articles == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article store not configured"})
		return
	}

	var filter linkcrawl.ArticleFilter
	if source := c.Query("source"); source != "" {
		filter.Source = &source
	}
	if u := c.Query("url"); u != "" {
		filter.URL = &u
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	articles, err := s.articles.FindArticles(c.Request.Context(), filter)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": linkcrawl.ErrorMessage(err)})
		return
	}
	if articles == nil {
		articles = []*linkcrawl.Article{}
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

// handleDeleteArticle removes one stored article by URL.
func (s *Server) handleDeleteArticle(c *gin.Context) {
	if s.articles == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article store not configured"})
		return
	}

	u := c.Query("url")
	if u == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter required"})
		return
	}

	if err := s.articles.DeleteArticle(c.Request.Context(), u); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": linkcrawl.ErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": u})
}

// statusFromError maps application error codes to HTTP statuses.
func statusFromError(err error) int {
	switch linkcrawl.ErrorCode(err) {
	case linkcrawl.EINVALID:
		return http.StatusBadRequest
	case linkcrawl.ENOTFOUND:
		return http.StatusNotFound
	case linkcrawl.ECONFLICT:
		return http.StatusConflict
	case linkcrawl.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
