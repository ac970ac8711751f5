package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Outcome of an assistant action.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// AuditLog records one action the assistant took on behalf of a church.
type AuditLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	ChurchID  uuid.UUID  `json:"churchId" gorm:"type:uuid;not null;index"`
	SessionID *uuid.UUID `json:"sessionId,omitempty" gorm:"type:uuid"`

	Action      string         `json:"action" gorm:"type:text;not null;index"` // appointment, prayer, handoff
	Status      string         `json:"status" gorm:"type:text;not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Payload     datatypes.JSON `json:"payload,omitempty" gorm:"type:jsonb"`
	Error       string         `json:"error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditFilter represents filters for querying audit logs
type AuditFilter struct {
	ChurchID  uuid.UUID
	Action    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// AuditLogResponse represents paginated audit log response
type AuditLogResponse struct {
	Logs       []AuditLog `json:"logs"`
	TotalCount int64      `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
