package citation

import (
	"sort"

	"lecturelens-be/internal/entity"
)

// Numbered is a citation annotated with its identity key and global number,
// as shown in the side panel. The key doubles as the highlight target: the
// client scrolls to the card whose key matches, which is naturally
// idempotent.
type Numbered struct {
	Number   int              `json:"number"`
	Key      string           `json:"key"`
	Citation *entity.Citation `json:"citation"`
}

// Dedupe collapses the raw segment/citation stream into one entry per
// identity key. First occurrence wins; the underlying store keeps every
// instance. Result is ordered by assigned number ascending.
func Dedupe(segments []*entity.TranscriptSegment, numbers map[string]int) []Numbered {
	seen := make(map[string]bool)
	unique := make([]Numbered, 0)

	for _, seg := range segments {
		for _, c := range seg.Citations {
			key := Key(c.DocumentName, c.PageNumber)
			if seen[key] {
				continue
			}
			num, ok := numbers[key]
			if !ok {
				continue // Key missing from the registry map; skip rather than invent a number
			}
			seen[key] = true
			unique = append(unique, Numbered{
				Number:   num,
				Key:      key,
				Citation: c,
			})
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Number < unique[j].Number
	})

	return unique
}
