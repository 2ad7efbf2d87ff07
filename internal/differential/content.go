package differential

import "strings"

// lineKind selects hunk lines by their unified-diff prefix.
type lineKind uint8

const (
	lineAdded lineKind = 1 << iota
	lineRemoved
)

// changedLines returns the lines of corpus selected by mask, prefix
// stripped. Context lines and "\ No newline" markers are never selected.
func changedLines(corpus string, mask lineKind) []string {
	if corpus == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(corpus, "\n"), "\n") {
		if line == "" {
			continue
		}
		var kind lineKind
		switch line[0] {
		case '+':
			kind = lineAdded
		case '-':
			kind = lineRemoved
		default:
			continue
		}
		if mask&kind != 0 {
			out = append(out, line[1:])
		}
	}
	return out
}
