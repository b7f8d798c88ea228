package logging

// Field name constants for structured logging.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldFiles    = "files"
	FieldInput    = "input"
	FieldOutput   = "output"
	FieldBackup   = "backup"
	FieldDuration = "duration"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
