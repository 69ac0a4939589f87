package models

// Action names a kind of entry in the action log
type Action string

const (
	// ActionBackup records a file copied into the backup archive
	ActionBackup Action = "Backed up"
	// ActionMove records a file moved to its destination
	ActionMove Action = "Moved"
	// ActionDelete records a file removed from its source
	ActionDelete Action = "Deleted"
	// ActionRestore records an extraction of the backup archive
	ActionRestore Action = "Restored"
)
