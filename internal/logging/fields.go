package logging

// Structured field names
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldRepo   = "repo"
	FieldOutput = "output"

	FieldCommit  = "commit"
	FieldSubject = "subject"
	FieldIndex   = "index"
	FieldTotal   = "total"
	FieldOps     = "ops"
	FieldInserts = "inserts"
	FieldDeletes = "deletes"

	FieldFrames      = "frames"
	FieldTransitions = "transitions"
	FieldCommits     = "commits"
	FieldElapsed     = "elapsed"

	FieldSize    = "size"
	FieldFPS     = "fps"
	FieldCodec   = "codec"
	FieldTheme   = "theme"
	FieldLexer   = "lexer"
	FieldDryRun  = "dry_run"
	FieldCache   = "cache"
	FieldHits    = "hits"
	FieldMisses  = "misses"
	FieldConfig  = "config"
)
