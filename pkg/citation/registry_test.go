package citation

import (
	"reflect"
	"testing"

	"lecturelens-be/internal/entity"
)

func seg(citations ...*entity.Citation) *entity.TranscriptSegment {
	return &entity.TranscriptSegment{Citations: citations}
}

func cite(doc string, page int) *entity.Citation {
	return &entity.Citation{DocumentName: doc, PageNumber: page}
}

func TestNumberCitations(t *testing.T) {
	tests := []struct {
		name     string
		segments []*entity.TranscriptSegment
		want     map[string]int
	}{
		{
			name:     "empty input",
			segments: nil,
			want:     map[string]int{},
		},
		{
			name:     "single citation gets number 1",
			segments: []*entity.TranscriptSegment{seg(cite("slides.pdf", 3))},
			want:     map[string]int{"slides.pdf-p3": 1},
		},
		{
			name: "first appearance order across segments",
			segments: []*entity.TranscriptSegment{
				seg(cite("docA", 1), cite("docB", 2)),
				seg(cite("docA", 1)),
			},
			want: map[string]int{"docA-p1": 1, "docB-p2": 2},
		},
		{
			name: "same document different pages are distinct",
			segments: []*entity.TranscriptSegment{
				seg(cite("docA", 1), cite("docA", 2)),
			},
			want: map[string]int{"docA-p1": 1, "docA-p2": 2},
		},
		{
			name: "duplicate never allocates a new number",
			segments: []*entity.TranscriptSegment{
				seg(cite("docA", 1)),
				seg(cite("docB", 2)),
				seg(cite("docA", 1), cite("docC", 5)),
			},
			want: map[string]int{"docA-p1": 1, "docB-p2": 2, "docC-p5": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NumberCitations(tt.segments)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NumberCitations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumberCitationsDeterministic(t *testing.T) {
	segments := []*entity.TranscriptSegment{
		seg(cite("lecture.pdf", 10), cite("handout.pdf", 2)),
		seg(cite("lecture.pdf", 10), cite("lecture.pdf", 11)),
		seg(cite("handout.pdf", 2)),
	}

	first := NumberCitations(segments)
	for i := 0; i < 50; i++ {
		if got := NumberCitations(segments); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced %v, want %v", i, got, first)
		}
	}
}

func TestDedupe(t *testing.T) {
	segments := []*entity.TranscriptSegment{
		seg(cite("docA", 1), cite("docB", 2)),
		seg(cite("docA", 1), cite("docC", 7)),
		seg(cite("docB", 2)),
	}
	numbers := NumberCitations(segments)

	got := Dedupe(segments, numbers)

	if len(got) != 3 {
		t.Fatalf("Dedupe() returned %d entries, want 3", len(got))
	}

	wantKeys := []string{"docA-p1", "docB-p2", "docC-p7"}
	for i, n := range got {
		if n.Number != i+1 {
			t.Errorf("entry %d has number %d, want %d", i, n.Number, i+1)
		}
		if n.Key != wantKeys[i] {
			t.Errorf("entry %d has key %q, want %q", i, n.Key, wantKeys[i])
		}
	}
}

func TestDedupeBounds(t *testing.T) {
	segments := []*entity.TranscriptSegment{
		seg(cite("a", 1), cite("a", 1), cite("b", 1)),
		seg(cite("a", 1)),
	}
	numbers := NumberCitations(segments)
	got := Dedupe(segments, numbers)

	total := 0
	for _, s := range segments {
		total += len(s.Citations)
	}

	if len(got) > total {
		t.Errorf("deduped length %d exceeds occurrence count %d", len(got), total)
	}
	if len(got) != len(numbers) {
		t.Errorf("deduped length %d != distinct key count %d", len(got), len(numbers))
	}
}

func TestDedupeEmpty(t *testing.T) {
	got := Dedupe(nil, map[string]int{})
	if len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v, want empty", got)
	}
}
