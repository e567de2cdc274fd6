package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerComputeCosts runs one pricing pass on demand. It shares the
// scheduler's run lock, so a manual trigger waits for an in-flight tick
// instead of overlapping with it.
func (s *Server) TriggerComputeCosts(c *gin.Context) {
	var (
		processed int
		err       error
	)
	if s.scheduler != nil {
		processed, err = s.scheduler.TriggerNow(c.Request.Context())
	} else {
		processed, err = s.parcelSvc.PriceUnprocessed(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed_count": processed})
}
