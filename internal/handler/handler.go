package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID returns the authenticated user's id from the gin context.
// Returns nil for unauthenticated (public) requests.
func currentUserID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get("userID")
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
