package tags

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/NivBraz/tagextractor/internal/models"
)

const (
	// DefaultWordWidth is the column width used for words on screen.
	DefaultWordWidth = 20

	headerPrefix = "Tags for file: "
	rule         = "========================="
	separator    = " : "
	unknownName  = "unknown"
)

// Format renders one line per entry, in the order given.
func Format(entries []models.WordCount) []string {
	return FormatWidth(entries, DefaultWordWidth)
}

// FormatWidth is Format with a custom word column width.
func FormatWidth(entries []models.WordCount, width int) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%-*s%s%d", width, e.Word, separator, e.Count))
	}
	return lines
}

// Report renders the on-screen block: a header, the formatted entries and a
// summary of the distinct tag count.
func Report(entries []models.WordCount, width int) string {
	var b strings.Builder
	b.WriteString("Tags (word : frequency)\n")
	b.WriteString(rule + "\n")
	for _, line := range FormatWidth(entries, width) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nTotal distinct tags: %d\n", len(entries))
	return b.String()
}

// Serialize produces the saved file content for entries taken from
// documentName.
func Serialize(entries []models.WordCount, documentName string) []byte {
	if documentName == "" {
		documentName = unknownName
	}

	var buf bytes.Buffer
	buf.WriteString(headerPrefix + documentName + "\n")
	buf.WriteString(rule + "\n")
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s%s%d\n", e.Word, separator, e.Count)
	}
	return buf.Bytes()
}

// ParseReport reads content written by Serialize and returns the document
// name and the entries in file order.
func ParseReport(data []byte) (string, []models.WordCount, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	// Words have no length limit, so a line may be as long as the data.
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	if !scanner.Scan() {
		return "", nil, fmt.Errorf("missing header line")
	}
	header := scanner.Text()
	if !strings.HasPrefix(header, headerPrefix) {
		return "", nil, fmt.Errorf("invalid header %q", header)
	}
	name := strings.TrimPrefix(header, headerPrefix)

	if !scanner.Scan() || scanner.Text() != rule {
		return "", nil, fmt.Errorf("missing separator line")
	}

	entries := make([]models.WordCount, 0)
	lineNo := 2
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		idx := strings.LastIndex(line, separator)
		if idx <= 0 {
			return "", nil, fmt.Errorf("line %d: missing %q separator", lineNo, strings.TrimSpace(separator))
		}
		count, err := strconv.Atoi(line[idx+len(separator):])
		if err != nil {
			return "", nil, fmt.Errorf("line %d: invalid count: %w", lineNo, err)
		}
		entries = append(entries, models.WordCount{
			Word:  line[:idx],
			Count: count,
		})
	}

	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("error reading report: %w", err)
	}

	return name, entries, nil
}
