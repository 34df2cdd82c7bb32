package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docrag/internal/cache"
	"docrag/internal/index"
	"docrag/internal/transport/http/response"
)

type StatsHandler struct {
	index    index.Provider
	counters *cache.StatsCounters
}

// NewStatsHandler builds the stats endpoint. counters may be nil when Redis
// is not configured; only the index stats are reported then.
func NewStatsHandler(provider index.Provider, counters *cache.StatsCounters) *StatsHandler {
	return &StatsHandler{index: provider, counters: counters}
}

func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.index.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
			"describe index failed: "+err.Error())
		return
	}

	payload := gin.H{"index": stats}
	if h.counters != nil {
		counters, err := h.counters.Snapshot(c.Request.Context())
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				"read counters failed: "+err.Error())
			return
		}
		payload["activity"] = counters
	}

	response.OK(c, payload)
}
