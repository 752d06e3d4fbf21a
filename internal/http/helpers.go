package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// missing reports whether a required field is absent or carries an empty
// value. Clients send loosely typed JSON, so emptiness is judged per type:
// null, false, "", zero numbers and empty collections all count as missing.
// The string "0" does not.
func missing(data map[string]any, field string) bool {
	v, ok := data[field]
	if !ok {
		return true
	}
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// stringValue renders a loosely typed JSON value as a string. null becomes
// the empty string, everything else prints with %v.
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// serverError reports an unexpected failure in the shape clients parse.
func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error: " + err.Error()})
}

// badRequest reports a client mistake with the given message.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
