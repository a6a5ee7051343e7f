package utils

import (
	"fmt"
	"strings"
	"time"

	"supportdesk/pkg/constants"
)

// FormatTicketID renders a ticket id the way the portals display it,
// zero-padded to six digits.
func FormatTicketID(id int64) string {
	return fmt.Sprintf("%06d", id)
}

// MonthKey formats a time as the YYYY-MM billing month key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonthKey returns the billing month key of the month before t.
func PreviousMonthKey(t time.Time) string {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return firstOfMonth.AddDate(0, 0, -1).Format("2006-01")
}

// FirstOfMonth truncates t to midnight on the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AttachmentKind classifies an upload by its MIME type for the comment
// thread renderer.
func AttachmentKind(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") || strings.Contains(mimeType, "image") {
		return constants.AttachmentTypeImage
	}
	return constants.AttachmentTypeDocument
}
