package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/ipgeo-server/internal/logger"
)

// GeoService resolves an address to the provider document.
type GeoService interface {
	Lookup(ctx context.Context, ip string) (json.RawMessage, error)
}

// Geo proxies geolocation lookups.
type Geo struct {
	geoService GeoService
	logger     *logger.Logger
}

func NewGeo(geoService GeoService, logger *logger.Logger) *Geo {
	return &Geo{geoService: geoService, logger: logger}
}

// Lookup serves /geo and /geo/:ip. The provider document is returned as is.
func (h *Geo) Lookup(c *gin.Context) {
	ip := c.Param("ip")

	doc, err := h.geoService.Lookup(c.Request.Context(), ip)
	if err != nil {
		h.logger.Error("Geo handler: lookup failed",
			"ip", ip,
			"error", err.Error())
		WriteError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}
