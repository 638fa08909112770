package models

import (
	"time"

	"gorm.io/datatypes"
)

// ViewSnapshot is the durable image of one feed view. The base table
// keeps no expiry of its own; staleness is enforced on restore and by
// the retention cleanup job.
type ViewSnapshot struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	View       string         `json:"view" gorm:"uniqueIndex"`
	ScopeID    int64          `json:"scope_id"`
	Payload    datatypes.JSON `json:"payload"`
	RowCount   int            `json:"row_count"`
	CapturedAt time.Time      `json:"captured_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
