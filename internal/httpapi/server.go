package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognicore/legalkb/pkg/legalkb"
	"github.com/cognicore/legalkb/pkg/legalkb/query"
)

// DefaultMaxResults is used when a search request has no max parameter.
const DefaultMaxResults = 10

// Server is the read-only JSON API over a loaded knowledge base
type Server struct {
	kb         *legalkb.KnowledgeBase
	planner    *query.Planner
	maxResults int
	router     *gin.Engine
}

// NewServer creates a new API server. maxResults is the default search
// size; values <= 0 use DefaultMaxResults.
func NewServer(kb *legalkb.KnowledgeBase, maxResults int) *Server {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	router := gin.Default()

	s := &Server{
		kb:         kb,
		planner:    query.NewPlanner(kb),
		maxResults: maxResults,
		router:     router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/codes", s.handleCodes)
		api.GET("/stats", s.handleStats)
		api.GET("/report", s.handleReport)
		api.GET("/articles/:number", s.handleArticle)
		api.GET("/search", s.handleSearch)
		api.GET("/topic", s.handleTopic)
		api.GET("/retrieve", s.handleRetrieve)
	}

	return s
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
