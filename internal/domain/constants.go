package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for history and download files (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultTimeoutSeconds bounds a single translate action
	DefaultTimeoutSeconds = 300
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 120 * time.Second
	// DefaultModelTestTimeout bounds `doctrans models test`
	DefaultModelTestTimeout = 30 * time.Second
	// DefaultCacheTTL is how long a cached translation stays valid
	DefaultCacheTTL = "168h"
)

// Limit constants
const (
	// MaxHistoryTextRunes bounds original_text in a history entry
	MaxHistoryTextRunes = 1000
	// HistoryViewLimit is the number of entries shown by the history view
	HistoryViewLimit = 5
	// HistoryPreviewRunes bounds each translation preview in the history view
	HistoryPreviewRunes = 100
	// DefaultHistoryLimit is the default number of history records to list
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// DefaultMaxCacheEntries is the maximum number of cache entries
	DefaultMaxCacheEntries = 500
	// DefaultMaxUploadMB bounds uploads accepted by the HTTP server
	DefaultMaxUploadMB = 32
	// DefaultRecentRuns is how many runs the HTTP server keeps for download
	DefaultRecentRuns = 100
	// DefaultMaxTokens is the default maximum number of generated tokens
	DefaultMaxTokens = 4096
)

// History backends
const (
	HistoryBackendJSON   = "json"
	HistoryBackendSQLite = "sqlite"
)

// Defaults for paths and addresses
const (
	DefaultHistoryFile = "history.json"
	DefaultServerAddr  = ":8080"
)

// Time formats
const (
	// HistoryTimestampFormat is the ISO-8601 layout of HistoryEntry.Timestamp
	HistoryTimestampFormat = "2006-01-02T15:04:05.000000"
	// TimestampFormat is the layout used when listing history
	TimestampFormat = time.RFC3339
)
