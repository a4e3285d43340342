package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldDir        = "dir"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Runner fields.
	FieldLinter    = "linter"
	FieldJobs      = "jobs"
	FieldBatchSize = "batch_size"
	FieldBatches   = "batches"
	FieldTimeout   = "timeout"
	FieldDuration  = "duration"
	FieldReason    = "reason"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesOK          = "files_ok"
	FieldFilesWithErrors  = "files_with_errors"
	FieldFilesFailed      = "files_failed"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Git fields.
	FieldBranch  = "branch"
	FieldCommand = "command"
	FieldMessage = "message"

	// Tester fields.
	FieldTester = "tester"
	FieldURL    = "url"
	FieldStatus = "status"
	FieldDest   = "dest"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldModule  = "module"
)
