package commands

import "github.com/doeshing/doctrans/internal/domain"

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// TimestampFormat is used when listing cache entries
	TimestampFormat = domain.TimestampFormat
)

// Error messages
const (
	ErrDoctorServiceUnavailable  = "doctor service unavailable"
	ErrHistoryStoreUnavailable   = "history store unavailable"
	ErrCacheStoreUnavailable     = "cache store unavailable"
	ErrQueryRequired             = "--query required"
	ErrModelNameProviderRequired = "--name and --provider are required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistory                = "No history found."
	MsgNoCachedTranslations     = "No cached translations."
	MsgCancelled                = "Cancelled."
)
