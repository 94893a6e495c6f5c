package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/rank"
)

const (
	maxQuerySize = 10 << 10 // 10KB
	maxResultCap = 100
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"loaded":  s.kb.Loaded(),
	})
}

func (s *Server) handleCodes(c *gin.Context) {
	codes := s.kb.AvailableCodes()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"codes":   codes,
		"count":   len(codes),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   s.kb.Stats(),
	})
}

func (s *Server) handleReport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  s.kb.Report(),
	})
}

func (s *Server) handleArticle(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 0 {
		badRequest(c, "article number must be a non-negative integer")
		return
	}
	code := c.Query("code")

	var arts []article.Article
	if code != "" {
		arts = s.kb.FindArticle(code, number)
	} else {
		arts = s.kb.FindArticleAnyCode(number)
	}

	status := http.StatusOK
	if len(arts) == 0 {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{
		"success":  len(arts) > 0,
		"number":   number,
		"code":     code,
		"articles": orEmpty(arts),
		"count":    len(arts),
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	q, ok := s.queryParam(c, "q")
	if !ok {
		return
	}
	max, ok := s.maxParam(c)
	if !ok {
		return
	}
	code := c.Query("code")

	if explain, _ := strconv.ParseBool(c.Query("explain")); explain {
		scored := s.kb.Explain(q, code, max)
		if scored == nil {
			scored = []rank.Scored{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"query":   q,
			"code":    code,
			"results": scored,
			"count":   len(scored),
		})
		return
	}

	arts := s.kb.SearchByKeywords(q, code, max)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"query":    q,
		"code":     code,
		"articles": orEmpty(arts),
		"count":    len(arts),
	})
}

func (s *Server) handleTopic(c *gin.Context) {
	t, ok := s.queryParam(c, "t")
	if !ok {
		return
	}
	max, ok := s.maxParam(c)
	if !ok {
		return
	}
	code := c.Query("code")

	arts := s.kb.SearchByTopic(t, code, max)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"topic":    t,
		"expanded": s.kb.ExpandTopic(t),
		"code":     code,
		"articles": orEmpty(arts),
		"count":    len(arts),
	})
}

func (s *Server) handleRetrieve(c *gin.Context) {
	q, ok := s.queryParam(c, "q")
	if !ok {
		return
	}

	res := s.planner.Retrieve(q)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  res,
		"count":   len(res.Articles),
	})
}

// queryParam reads a size-limited text parameter. A missing or blank value
// is not an error; it searches for nothing and yields an empty result.
func (s *Server) queryParam(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if len(v) > maxQuerySize {
		badRequest(c, name+" exceeds maximum size of 10KB")
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (s *Server) maxParam(c *gin.Context) (int, bool) {
	raw := c.Query("max")
	if raw == "" {
		return s.maxResults, true
	}
	max, err := strconv.Atoi(raw)
	if err != nil || max <= 0 {
		badRequest(c, "max must be a positive integer")
		return 0, false
	}
	if max > maxResultCap {
		max = maxResultCap
	}
	return max, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

func orEmpty(arts []article.Article) []article.Article {
	if arts == nil {
		return []article.Article{}
	}
	return arts
}
