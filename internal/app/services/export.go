package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/app/models/dto"
)

// exportColumns is the fixed CSV column order.
var exportColumns = []string{
	"timestamp", "studentId", "centre", "courseCode", "courseName", "lecturer", "sessionCode",
}

// ExportCSV renders everything matching the filter as CSV text, capped at
// exportRowCap rows to bound memory. Pagination parameters on the filter are
// ignored; an export is always the whole filtered set.
func (s *attendanceServiceImpl) ExportCSV(ctx context.Context, filter dto.LogFilter) (string, error) {
	query := buildCheckInQuery(filter)
	query.Offset = 0
	query.Limit = s.exportRowCap

	entries, _, err := s.checkIns.List(ctx, query)
	if err != nil {
		return "", fmt.Errorf("error querying attendance logs for export: %w", err)
	}

	return renderCSV(entries), nil
}

// renderCSV writes one header line plus one line per record, joined by a
// single "\n" with no trailing newline. Every field is quoted and internal
// quotes are doubled, so commas, quotes and newlines inside any denormalized
// string cannot corrupt the file.
func renderCSV(entries []models.CheckIn) string {
	var b strings.Builder

	writeCSVRow(&b, exportColumns)
	for _, entry := range entries {
		b.WriteByte('\n')
		writeCSVRow(&b, []string{
			entry.Timestamp.UTC().Format(time.RFC3339),
			entry.StudentID,
			entry.Centre,
			entry.CourseCode,
			entry.CourseName,
			entry.Lecturer,
			entry.SessionCode,
		})
	}

	return b.String()
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
}
