package messages

// System messages for internal operations.
const (
	// FsutilCreateTempFileFmt formats temp file creation errors.
	FsutilCreateTempFileFmt = "create temp file for %s: %w"
	FsutilSetPermissionsFmt = "set permissions for %s: %w"
	FsutilWriteTempFileFmt  = "write temp file for %s: %w"
	FsutilSyncTempFileFmt   = "sync temp file for %s: %w"
	FsutilCloseTempFileFmt  = "close temp file for %s: %w"
	FsutilRenameTempFileFmt = "rename temp file for %s: %w"
	FsutilOpenDirFmt        = "open dir %s: %w"
	FsutilSyncDirFmt        = "sync dir %s: %w"

	// RunnerCommandFailedFmt formats external command failures.
	RunnerCommandFailedFmt = "%s: %w"

	// ConfigReadFailedFmt formats override file read errors.
	ConfigReadFailedFmt  = "read %s: %w"
	ConfigParseFailedFmt = "parse %s: %w"

	// PromptYesNoSuffix is appended to yes/no confirmation prompts.
	PromptYesNoSuffix = " [y/N]: "
	// PromptContinueSuffix is appended to continue-or-abort prompts.
	PromptContinueSuffix  = " [Enter to continue, any other input stops]: "
	PromptNotTerminalNote = "no terminal attached; assuming default response"
	PromptReadFailedFmt   = "read response: %w"
)
