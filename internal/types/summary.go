package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DownloadSummary aggregates the outcome of one download session.
type DownloadSummary struct {
	SessionID           string
	TotalMessages       int
	SuccessfulDownloads int
	FailedDownloads     int
	SkippedMessages     int
	TotalSizeBytes      int64
	Duration            time.Duration
}

// SuccessRate returns the percentage of successful downloads among all
// attempted ones, or 0 when nothing was attempted.
func (s *DownloadSummary) SuccessRate() float64 {
	attempts := s.SuccessfulDownloads + s.FailedDownloads
	if attempts == 0 {
		return 0
	}
	return float64(s.SuccessfulDownloads) / float64(attempts) * 100
}

func (s *DownloadSummary) FormatSize() string {
	return humanize.Bytes(uint64(s.TotalSizeBytes))
}

// Render returns the boxed multi-line summary printed at session end.
func (s *DownloadSummary) Render() string {
	var b strings.Builder
	line := strings.Repeat("═", 56)
	b.WriteString("╔" + line + "╗\n")
	b.WriteString(fmt.Sprintf("║ %-54s ║\n", "DOWNLOAD SUMMARY"))
	b.WriteString("╠" + line + "╣\n")
	rows := []struct {
		label string
		value string
	}{
		{"Total Messages", fmt.Sprintf("%d", s.TotalMessages)},
		{"Successful Downloads", fmt.Sprintf("%d", s.SuccessfulDownloads)},
		{"Failed Downloads", fmt.Sprintf("%d", s.FailedDownloads)},
		{"Skipped Messages", fmt.Sprintf("%d", s.SkippedMessages)},
		{"Success Rate", fmt.Sprintf("%.1f%%", s.SuccessRate())},
		{"Total Size", s.FormatSize()},
		{"Duration", fmt.Sprintf("%.1fs", s.Duration.Seconds())},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("║ %-22s %31s ║\n", row.label+":", row.value))
	}
	b.WriteString("╚" + line + "╝")
	return b.String()
}

func (s *DownloadSummary) String() string {
	return fmt.Sprintf("DownloadSummary(messages=%d, successful=%d, failed=%d, size=%s)",
		s.TotalMessages, s.SuccessfulDownloads, s.FailedDownloads, s.FormatSize())
}
