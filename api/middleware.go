package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

type bodyKey struct{}

// Bind reads the request body, rejects it with 400 unless it is valid JSON holding every
// required path, and stores it in the request context for Body.
func Bind(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		bts := mo.TupleToResult[[]byte](io.ReadAll(c.Request.Body))
		if bts.IsError() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bts.Error().Error()})
			return
		}
		body := string(bts.MustGet())
		if !gjson.Valid(body) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		parsed := gjson.Parse(body)
		if missing := lo.Filter(required, func(path string, _ int) bool { return !parsed.Get(path).Exists() }); len(missing) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing %v", missing)})
			return
		}
		ctx := context.WithValue(c.Request.Context(), bodyKey{}, parsed)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Body returns the JSON stored by Bind.
func Body(c *gin.Context) gjson.Result {
	if val, ok := c.Request.Context().Value(bodyKey{}).(gjson.Result); ok {
		return val
	}
	return gjson.Result{}
}
