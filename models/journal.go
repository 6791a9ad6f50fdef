package models

import "time"

// Journal operations.
const (
	OpSaveRoleGroups      = "save.role_groups"
	OpSaveRolePermissions = "save.role_permissions"
	OpTemporaryGrant      = "grant.temporary"
	OpUserOverride        = "user.override"
	OpGroupCreate         = "group.create"
	OpGroupDelete         = "group.delete"
)

// Journal outcomes.
const (
	JournalStatusOK     = "ok"
	JournalStatusFailed = "failed"
)

// JournalEntry records the outcome of one outbound mutation against the
// hospital API. Items holds the JSON-encoded payload that was sent.
type JournalEntry struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Operation string    `gorm:"column:operation;index" json:"operation"`
	Target    string    `gorm:"column:target;index" json:"target"`
	Items     string    `gorm:"column:items" json:"items"`
	Status    string    `gorm:"column:status" json:"status"`
	Error     string    `gorm:"column:error" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

// NewJournalEntry builds an entry stamped with a fresh id and the current UTC time.
// A non-nil err marks the entry as failed.
func NewJournalEntry(op, target, items string, err error) JournalEntry {
	e := JournalEntry{
		ID:        NewID(),
		Operation: op,
		Target:    target,
		Items:     items,
		Status:    JournalStatusOK,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		e.Status = JournalStatusFailed
		e.Error = err.Error()
	}
	return e
}
