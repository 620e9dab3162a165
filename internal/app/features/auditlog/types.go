// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
)

// maxPage caps one page of audit entries.
const maxPage = 200

// dateLayout is the format of the start and end query parameters.
const dateLayout = "2006-01-02"

type entry struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	ActorID       string            `json:"actorId,omitempty"`
	ActorName     string            `json:"actorName,omitempty"`
	EventID       string            `json:"eventId,omitempty"`
	EventName     string            `json:"eventName,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Items  []entry `json:"items"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

var categories = map[string]bool{
	audit.CategoryMatching:     true,
	audit.CategoryEvent:        true,
	audit.CategoryNotification: true,
	audit.CategoryAdmin:        true,
}
