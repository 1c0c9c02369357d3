package bulletin

import (
	"fmt"
	"regexp"
	"strings"
)

// terminator ends a product segment in NWS raw text.
const terminator = "$$"

var (
	// ZoneToken matches an Alaska forecast zone token, e.g. "AKZ317" in
	// "AKZ317-318-221015-" or "PKZ022" in "PKZ022-271615-". Used as the
	// default successor pattern when slicing multi-zone products.
	ZoneToken = regexp.MustCompile(`\b(?:AKZ|PKZ)\d{3}\b`)

	// periodHeaderRe matches dotted period headers: ".TODAY...SE wind 15 kt."
	// captures name "TODAY" and trailing text "SE wind 15 kt.". The [^.] guard
	// keeps "...HEADLINE..." banner lines from parsing as periods.
	periodHeaderRe = regexp.MustCompile(`^\.([^.].*?)\.\.\.(.*)$`)
)

// Slice cuts the section for id out of a multi-zone product. The section
// starts at the first line containing id (ids are uppercase tokens; callers
// normalize case) and ends before the first following line that matches next
// or the "$$" terminator, or at end of input. A nil next means only the
// terminator ends the section.
//
// Returns ErrSectionNotFound (wrapped) when no line carries id.
func Slice(text, id string, next *regexp.Regexp) (Section, error) {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, id) {
			start = i
			break
		}
	}
	if start == -1 {
		return Section{}, fmt.Errorf("slice %s: %w", id, ErrSectionNotFound)
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == terminator || (next != nil && next.MatchString(trimmed)) {
			end = i
			break
		}
	}

	return Section{
		ID:     id,
		Header: strings.TrimSpace(lines[start]),
		Text:   strings.TrimSpace(strings.Join(lines[start+1:end], "\n")),
	}, nil
}

// SliceDashed splits a product into sections by UGC-style headers: lines
// ending with "-" that are not the terminator. Coastal waters forecasts mark
// every zone block this way ("PKZ022-221615-" followed by a dashed zone-name
// line). Consecutive dashed lines belong to one header. A section's ID is the
// first zone token in its header, if any.
func SliceDashed(text string) []Section {
	var (
		sections   []Section
		cur        *Section
		body       []string
		prevDashed bool
	)

	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimSpace(strings.Join(body, "\n"))
			sections = append(sections, *cur)
			cur = nil
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == terminator:
			flush()
			prevDashed = false
		case trimmed != "" && strings.HasSuffix(trimmed, "-"):
			if prevDashed && cur != nil {
				cur.Header += "\n" + trimmed
			} else {
				flush()
				cur = &Section{ID: ZoneToken.FindString(trimmed), Header: trimmed}
			}
			prevDashed = true
		default:
			if cur != nil {
				body = append(body, line)
			}
			prevDashed = false
		}
	}
	flush()

	return sections
}

// SplitPeriods separates a section into its leading synopsis and dotted
// forecast periods. Period bodies are unwrapped into flowing text; the
// synopsis keeps its line structure (it carries the zone name and issuance
// timestamp lines).
func SplitPeriods(text string) (synopsis string, periods []Period) {
	var buf []string
	cur := -1

	flush := func() {
		if cur == -1 {
			synopsis = strings.TrimSpace(strings.Join(buf, "\n"))
		} else {
			periods[cur].Text = unwrap(buf)
		}
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := periodHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			periods = append(periods, Period{Name: strings.TrimSpace(m[1])})
			cur = len(periods) - 1
			if rest := strings.TrimSpace(m[2]); rest != "" {
				buf = append(buf, rest)
			}
			continue
		}
		if strings.TrimSpace(line) == terminator {
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return synopsis, periods
}

// Synopsis pulls the ".SYNOPSIS..." block out of a product's prologue. The
// prologue ends at the first zone header, so everything from firstHeader on
// is cut before splitting; otherwise zone text would bleed into the
// synopsis. An empty firstHeader searches the whole text.
func Synopsis(text, firstHeader string) string {
	if firstHeader != "" {
		headerLine, _, _ := strings.Cut(firstHeader, "\n")
		if i := strings.Index(text, headerLine); i >= 0 {
			text = text[:i]
		}
	}

	_, periods := SplitPeriods(text)
	for _, p := range periods {
		if strings.HasPrefix(strings.ToUpper(p.Name), "SYNOPSIS") {
			return p.Text
		}
	}
	return ""
}

// unwrap joins hard-wrapped lines into a single space-separated string.
func unwrap(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
