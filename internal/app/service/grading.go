package service

import "strings"

// Normalize is the canonical form used for grading. The rule is part of the
// Part contract and must stay stable across releases:
//
//	CRLF -> LF, trailing whitespace stripped from each line,
//	trailing blank lines dropped.
//
// Anything beyond that (case, interior whitespace) is significant.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Grade decides correctness at submission time. It is never re-run: the
// verdict is a snapshot against the solution as it existed at that moment.
func Grade(content, solution string) bool {
	return Normalize(content) == Normalize(solution)
}
