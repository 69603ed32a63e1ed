package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/minisoc/socdash/sdk"
)

// BannerTTL is how long a banner stays visible.
const BannerTTL = 5 * time.Second

// Kind classifies a banner.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Banner texts.
const (
	MsgLoadFailed    = "Error loading dashboard data. Make sure the backend server is running."
	MsgNoFile        = "Please select a file to upload"
	MsgNoLogSelected = "Please select a log file to analyze"
	MsgUploading     = "Uploading and analyzing log file..."
	MsgAnalyzing     = "Analyzing log file..."
	MsgClearing      = "Clearing all alerts..."
	MsgCleared       = "All alerts cleared successfully"
	MsgAnalyzeFailed = "Error analyzing file"
	MsgClearFailed   = "Error clearing alerts"
	MsgUploadFailed  = "Error uploading file. Make sure the backend server is running."
	MsgNoFiles       = "No log files available on the backend"
	MsgFileTooLarge  = "File too large (max 32 MB)"
	MsgBadUpload     = "Error reading uploaded file"

	MsgAnalyzeUnreachable = "Error analyzing file. Make sure the backend server is running."
	MsgClearUnreachable   = "Error clearing alerts. Make sure the backend server is running."
)

// Banner is a transient status message.
type Banner struct {
	Text      string
	Kind      Kind
	ExpiresAt time.Time
}

// NewBanner creates a banner expiring BannerTTL after now.
func NewBanner(kind Kind, text string, now time.Time) Banner {
	return Banner{Text: text, Kind: kind, ExpiresAt: now.Add(BannerTTL)}
}

// Info creates an info banner.
func Info(text string, now time.Time) Banner { return NewBanner(KindInfo, text, now) }

// Success creates a success banner.
func Success(text string, now time.Time) Banner { return NewBanner(KindSuccess, text, now) }

// Error creates an error banner.
func Error(text string, now time.Time) Banner { return NewBanner(KindError, text, now) }

// Detected reports a finished analysis.
func Detected(n int, now time.Time) Banner {
	return Success(fmt.Sprintf("Success! Detected %d alerts", n), now)
}

// Cleared reports a finished clear.
func Cleared(now time.Time) Banner { return Success(MsgCleared, now) }

// Active reports whether the banner is still visible at now.
func (b Banner) Active(now time.Time) bool {
	return b.Text != "" && now.Before(b.ExpiresAt)
}

// Class is the CSS class for the banner.
func (b Banner) Class() string {
	return "message message-" + string(b.Kind)
}

// Failure picks the banner for a failed command: rejected when the backend
// answered (non-2xx or success=false), unreachable otherwise.
func Failure(err error, rejected, unreachable string, now time.Time) Banner {
	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) || errors.Is(err, sdk.ErrUnsuccessful) || errors.Is(err, sdk.ErrEmptyName) {
		return Error(rejected, now)
	}
	return Error(unreachable, now)
}
