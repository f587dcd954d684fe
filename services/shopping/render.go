package shopping

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"foodgram-backend/services/errs"
)

type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
)

// ParseFormat maps the ?format= query value to a Format, defaulting to text.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", errs.NewValidation("format", fmt.Sprintf("Unsupported format %q, expected txt or csv.", value))
	}
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func (f Format) FileName() string {
	return "shopping_list." + string(f)
}

// Render writes lines in format f. The text form carries a short header naming the user.
func Render(w io.Writer, f Format, username string, lines []Line) error {
	if f == FormatCSV {
		return WriteCSV(w, lines)
	}
	return WriteText(w, username, lines)
}

// FormatLine renders one entry as "<name> (<unit>) — <total>".
func FormatLine(line Line) string {
	return fmt.Sprintf("%s (%s) — %d", line.Name, line.MeasurementUnit, line.Total)
}

func WriteText(w io.Writer, username string, lines []Line) error {
	var b strings.Builder
	b.WriteString("Shopping list\n")
	b.WriteString("User: " + username + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	for _, line := range lines {
		b.WriteString(FormatLine(line))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func WriteCSV(w io.Writer, lines []Line) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "measurement_unit", "amount"}); err != nil {
		return err
	}
	for _, line := range lines {
		record := []string{line.Name, line.MeasurementUnit, strconv.FormatInt(line.Total, 10)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
