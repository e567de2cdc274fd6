package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListPackageTypes(c *gin.Context) {
	types, err := s.typeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": types})
}
