package attendance

import (
	"strings"
	"time"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

// punchTimeFormats lists the timestamp layouts seen across fingerprint
// terminal export firmwares.
var punchTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

func parsePunchTime(s string) (time.Time, bool) {
	for _, layout := range punchTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parsePunchCSV splits raw device export text into punches. Rows that
// cannot be parsed are collected as RowErrors; a bad row never aborts
// the batch. A leading header row is skipped silently.
func parsePunchCSV(raw string) ([]attendance.RawPunch, []attendance.RowError) {
	var (
		punches []attendance.RawPunch
		rowErrs []attendance.RowError
	)

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		fields := strings.Split(trimmed, ",")
		if len(fields) < 2 {
			rowErrs = append(rowErrs, attendance.RowError{
				Line:    lineNo,
				Row:     line,
				Message: "expected at least 2 columns: device_code,timestamp",
			})
			continue
		}

		code := strings.TrimSpace(fields[0])
		ts := strings.TrimSpace(fields[1])

		punchedAt, ok := parsePunchTime(ts)
		if !ok {
			// Device exports usually open with a header row.
			if lineNo == 1 && !validator.IsNumeric(code) {
				continue
			}
			rowErrs = append(rowErrs, attendance.RowError{
				Line:    lineNo,
				Row:     line,
				Message: "unrecognized timestamp: " + ts,
			})
			continue
		}

		if !validator.IsValidDeviceCode(code) {
			rowErrs = append(rowErrs, attendance.RowError{
				Line:    lineNo,
				Row:     line,
				Message: "invalid device code: " + code,
			})
			continue
		}

		punches = append(punches, attendance.RawPunch{DeviceCode: code, PunchedAt: punchedAt})
	}

	return punches, rowErrs
}
