package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

const auditPageSize = 50

type AuditController struct {
	pages
}

func NewAuditController(p pages) *AuditController {
	return &AuditController{pages: p}
}

// AuditLogPage renders the most recent catalog changes.
// GET /catalog/audit
func (ac *AuditController) AuditLogPage(c *gin.Context) {
	eventType := c.Query("type")

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType != "" {
		events, total, err = ac.audit.GetEventsByType(c.Request.Context(), entities.AuditEventType(eventType), auditPageSize, 0)
	} else {
		events, total, err = ac.audit.GetEvents(c.Request.Context(), auditPageSize, 0)
	}
	if err != nil {
		ac.respondInternalError(c, err, "load audit events")
		return
	}

	ac.render(c, http.StatusOK, "audit", gin.H{
		"Title":       "Recent Changes",
		"Events":      events,
		"TotalEvents": total,
		"EventType":   eventType,
		"EventTypes":  eventTypeOptions(eventType),
	})
}

type EventTypeOption struct {
	Value    string
	Label    string
	Selected bool
}

func eventTypeOptions(current string) []EventTypeOption {
	options := []EventTypeOption{
		{Value: "", Label: "All Events"},
		{Value: string(entities.AuditEventCreate), Label: "Created"},
		{Value: string(entities.AuditEventUpdate), Label: "Updated"},
		{Value: string(entities.AuditEventDelete), Label: "Deleted"},
		{Value: string(entities.AuditEventMaintenance), Label: "Maintenance"},
	}
	for i := range options {
		options[i].Selected = options[i].Value == current
	}
	return options
}
