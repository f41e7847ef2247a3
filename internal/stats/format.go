package stats

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const timeLayout = "2006-01-02 15:04:05"

// Format renders st as the multi-line report printed by --tokens.
func Format(path string, st FileStats) string {
	ext := st.Extension
	if ext == "" {
		ext = "No extension"
	}
	out := []string{
		"\nFile Statistics for: " + path,
		strings.Repeat("=", 18+utf8.RuneCountInString(path)),
		"Type: " + st.MIMEType,
		fmt.Sprintf("Size: %s (%d bytes)", HumanSize(st.Size), st.Size),
		"Extension: " + ext,
		"Last Modified: " + st.LastModified.Local().Format(timeLayout),
	}

	switch {
	case st.Binary:
		out = append(out, "\nNote: Binary file - text statistics not applicable")
	case st.TextErr != nil:
		out = append(out, fmt.Sprintf("\nError reading text statistics: %v", st.TextErr))
	case st.Text != nil:
		t := st.Text
		out = append(out,
			"\nText Statistics:",
			"Lines: "+group(t.Lines),
			"Words: "+group(t.Words),
			"Characters (with spaces): "+group(t.Chars),
			"Characters (no spaces): "+group(t.CharsNoSpaces),
			fmt.Sprintf("Average Line Length: %.2f characters", t.AvgLineLength),
			fmt.Sprintf("Average Word Length: %.2f characters", t.AvgWordLength),
		)
		if st.Tokens >= 0 {
			out = append(out, "\nToken Statistics:", "Token Count: "+group(st.Tokens))
			if st.Tokens > 0 {
				out = append(out, fmt.Sprintf("Avg Bytes per Token: %.2f", float64(st.Size)/float64(st.Tokens)))
			} else {
				out = append(out, "Avg Bytes per Token: N/A")
			}
			if t.Words > 0 {
				out = append(out, fmt.Sprintf("Tokens per Word: %.2f", float64(st.Tokens)/float64(t.Words)))
			} else {
				out = append(out, "Tokens per Word: N/A")
			}
		}
	}
	return strings.Join(out, "\n")
}

// group formats n with thousands separators.
func group(n int) string {
	s := fmt.Sprint(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
