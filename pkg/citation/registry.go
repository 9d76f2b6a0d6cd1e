// Package citation derives the global display numbering of citations from an
// ordered transcript. Numbering is a pure function of scan order: there is no
// stored counter, so recomputing over the same input always reproduces the
// same map.
package citation

import (
	"fmt"

	"lecturelens-be/internal/entity"
)

// Key derives the identity key of a citation. Two citations with the same
// document name and page are the same logical citation regardless of
// snippet, relevance or rank.
func Key(documentName string, pageNumber int) string {
	return fmt.Sprintf("%s-p%d", documentName, pageNumber)
}

// NumberCitations scans segments in order (and citations in their given order
// within a segment) and assigns each distinct key a 1-based number at its
// first occurrence.
func NumberCitations(segments []*entity.TranscriptSegment) map[string]int {
	numbers := make(map[string]int)
	next := 1
	for _, seg := range segments {
		for _, c := range seg.Citations {
			key := Key(c.DocumentName, c.PageNumber)
			if _, seen := numbers[key]; !seen {
				numbers[key] = next
				next++
			}
		}
	}
	return numbers
}
