package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController probes the catalog database and, when the task queue is
// running, its database. A nil probe is reported as "not configured" and
// does not make the service unhealthy.
type HealthController struct {
	probes  map[string]HealthChecker
	version string
}

func NewHealthController(probes map[string]HealthChecker, version string) *HealthController {
	return &HealthController{probes: probes, version: version}
}

func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}

	results := make([]string, len(names))
	var g errgroup.Group
	for i, name := range names {
		probe := h.probes[name]
		if probe == nil {
			results[i] = "not configured"
			continue
		}
		g.Go(func() error {
			if err := probe.Ping(ctx); err != nil {
				results[i] = "error: " + err.Error()
			} else {
				results[i] = "ok"
			}
			return nil
		})
	}
	_ = g.Wait()

	status := "healthy"
	checks := make(map[string]string, len(names))
	for i, name := range names {
		checks[name] = results[i]
		if strings.HasPrefix(results[i], "error:") {
			status = "unhealthy"
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
