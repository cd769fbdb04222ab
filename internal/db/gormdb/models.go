package gormdb

import "time"

// Process is a workflow owned by an org. Description holds plain text or a
// serialized rich document.
type Process struct {
	ID          string `gorm:"primaryKey;size:36"`
	OrgID       string `gorm:"not null;size:64;uniqueIndex:idx_processes_org_slug"`
	Slug        string `gorm:"not null;size:160;uniqueIndex:idx_processes_org_slug"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Role is a person-shaped responsibility. Initials may be empty.
type Role struct {
	ID          string `gorm:"primaryKey;size:36"`
	OrgID       string `gorm:"not null;size:64;uniqueIndex:idx_roles_org_slug"`
	Slug        string `gorm:"not null;size:160;uniqueIndex:idx_roles_org_slug"`
	Name        string `gorm:"not null"`
	Initials    string `gorm:"size:4"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// System is a tool or application an action runs in.
type System struct {
	ID          string `gorm:"primaryKey;size:36"`
	OrgID       string `gorm:"not null;size:64;uniqueIndex:idx_systems_org_slug"`
	Slug        string `gorm:"not null;size:160;uniqueIndex:idx_systems_org_slug"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Action is one step of a process, performed by one role in one system.
type Action struct {
	ID          string `gorm:"primaryKey;size:36"`
	OrgID       string `gorm:"not null;size:64;index:idx_actions_org_process,priority:1"`
	ProcessID   string `gorm:"not null;size:36;index:idx_actions_org_process,priority:2"`
	RoleID      string `gorm:"not null;size:36;index"`
	SystemID    string `gorm:"not null;size:36;index"`
	Sequence    int    `gorm:"not null"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Models lists every table the catalog owns, in migration order.
func Models() []any {
	return []any{&Process{}, &Role{}, &System{}, &Action{}}
}
