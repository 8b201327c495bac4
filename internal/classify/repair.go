package classify

import (
	"strings"
)

var (
	sectionStarts = map[string]struct{}{"begin:vevent": {}, "begin:vtodo": {}, "begin:vjournal": {}}
	sectionEnds   = map[string]struct{}{"end:vevent": {}, "end:vtodo": {}, "end:vjournal": {}}
)

// Repair keeps only the lines of payload that belong to a VEVENT, VTODO or
// VJOURNAL block, joined by "\n". Trailing carriage returns are dropped.
// repaired reports whether any line was skipped. An unterminated block keeps
// every line up to the end of the payload. The first kept line is always a
// start marker, so an empty out means nothing was kept.
func Repair(payload string) (out string, repaired bool) {
	lines := strings.Split(payload, "\n")
	kept := make([]string, 0, len(lines))
	inSection := false
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		testLine := strings.ToLower(line)
		if _, ok := sectionStarts[testLine]; ok {
			inSection = true
		} else if !inSection {
			repaired = true
			continue
		}
		if _, ok := sectionEnds[testLine]; ok && inSection {
			inSection = false
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), repaired
}
