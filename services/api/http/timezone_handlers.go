package http

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/naturalist-tools/inat-tz/services/api/lookup"
)

// handleLookup resolves the time zone of a coordinate pair
// GET /?lon=-100.25&lat=50.1&token=...
// GET /api/v1/timezone?lon=-100.25&lat=50.1&token=...
func (s *Server) handleLookup(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.QueryTimeout)
	defer cancel()

	resp := s.service.Lookup(ctx, lookup.Request{
		Lon:   queryParam(c, "lon"),
		Lat:   queryParam(c, "lat"),
		Token: tokenParam(c),
	})

	c.JSON(resp.Status(), resp)
}

func queryParam(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

// tokenParam takes the token query parameter, falling back to an
// Authorization: Bearer header.
func tokenParam(c *gin.Context) *string {
	if v := queryParam(c, "token"); v != nil {
		return v
	}
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if token == "" {
		return nil
	}
	return &token
}
