package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations such as
	// completion requests.
	ExtendedHTTPTimeout = 120 * time.Second
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 50

	// SmallPageSize is used for demonstrations or small lists.
	SmallPageSize = 5
)

// Command argument counts.
const (
	// TwoArgumentsRequired indicates commands requiring exactly 2 arguments.
	TwoArgumentsRequired = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// SummaryDisplayLength is the default length for truncating issue
	// summaries in table output.
	SummaryDisplayLength = 60
)
