package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseUintParam reads a numeric path parameter, aborting with a 400 when
// it is not a positive integer.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return uint(value), true
}
