package errs

import "fmt"

// Tag is the closed taxonomy of download failure causes.
type Tag string

const (
	TagFileReferenceExpired Tag = "FILE_REFERENCE_EXPIRED"
	TagTimeout              Tag = "TIMEOUT"
	TagBadRequest           Tag = "BAD_REQUEST"
	TagUnauthorized         Tag = "UNAUTHORIZED"
	TagFileTooLarge         Tag = "FILE_TOO_LARGE"
	TagNetworkError         Tag = "NETWORK_ERROR"
	TagDirectoryNotFound    Tag = "DIRECTORY_NOT_FOUND"
	TagConfigInvalid        Tag = "CONFIG_INVALID"
	TagUnknown              Tag = "UNKNOWN"
)

type Severity string

const (
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Record is the user-facing rendering of a classified failure.
type Record struct {
	Tag         Tag
	Severity    Severity
	Title       string
	Description string
	Remedy      string
}

// Format renders the record for user display.
func (r Record) Format() string {
	return fmt.Sprintf("%s\n   %s\n   solution: %s", r.Title, r.Description, r.Remedy)
}

var records = map[Tag]Record{
	TagFileReferenceExpired: {
		Tag:         TagFileReferenceExpired,
		Severity:    SeverityWarning,
		Title:       "File Reference Expired",
		Description: "Telegram removed access to this file (it was too old or deleted)",
		Remedy:      "The file will be automatically retried on your next run",
	},
	TagTimeout: {
		Tag:         TagTimeout,
		Severity:    SeverityWarning,
		Title:       "Download Timeout",
		Description: "The download took too long and was cancelled",
		Remedy:      "Check your internet connection. The file will be retried.",
	},
	TagBadRequest: {
		Tag:         TagBadRequest,
		Severity:    SeverityError,
		Title:       "Bad Request",
		Description: "Invalid request sent to Telegram servers",
		Remedy:      "This usually happens with corrupted files. The file will be skipped.",
	},
	TagUnauthorized: {
		Tag:         TagUnauthorized,
		Severity:    SeverityError,
		Title:       "Unauthorized",
		Description: "Your Telegram session is no longer valid",
		Remedy:      "Delete session file and re-authenticate",
	},
	TagFileTooLarge: {
		Tag:         TagFileTooLarge,
		Severity:    SeverityError,
		Title:       "File Too Large",
		Description: "This file is larger than 2GB (Telegram limit)",
		Remedy:      "Unfortunately this file cannot be downloaded",
	},
	TagNetworkError: {
		Tag:         TagNetworkError,
		Severity:    SeverityWarning,
		Title:       "Network Error",
		Description: "Connection to Telegram failed",
		Remedy:      "Check your internet connection and try again",
	},
	TagDirectoryNotFound: {
		Tag:         TagDirectoryNotFound,
		Severity:    SeverityError,
		Title:       "Directory Not Found",
		Description: "Output directory doesn't exist and cannot be created",
		Remedy:      "Check directory path permissions and try again",
	},
	TagConfigInvalid: {
		Tag:         TagConfigInvalid,
		Severity:    SeverityError,
		Title:       "Invalid Configuration",
		Description: "Configuration file has invalid values",
		Remedy:      "Check your config.yaml file for errors",
	},
	TagUnknown: {
		Tag:         TagUnknown,
		Severity:    SeverityError,
		Title:       "Unknown Error",
		Description: "An unexpected error occurred",
		Remedy:      "Check the logs for details or report the issue",
	},
}

// RecordFor returns the fixed Record of a Tag.
func RecordFor(tag Tag) Record {
	if r, ok := records[tag]; ok {
		return r
	}
	return records[TagUnknown]
}
