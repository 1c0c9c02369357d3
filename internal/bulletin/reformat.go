package bulletin

import "strings"

// sectionBreak separates AFD sections in raw products.
const sectionBreak = "&&"

// Reformat turns a hard-wrapped text product into readable paragraphs.
// Paragraphs break on blank lines, on "&&" and "$$" separators (which are
// dropped), and on dotted section headers, which start a new paragraph.
// Lines within a paragraph are unwrapped into flowing text.
func Reformat(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		paragraphs []string
		buf        []string
	)

	flush := func() {
		if p := unwrap(buf); p != "" {
			paragraphs = append(paragraphs, p)
		}
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == sectionBreak || trimmed == terminator:
			flush()
		case periodHeaderRe.MatchString(trimmed):
			flush()
			buf = append(buf, trimmed)
		default:
			buf = append(buf, line)
		}
	}
	flush()

	return paragraphs
}
