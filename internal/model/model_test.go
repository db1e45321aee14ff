package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationOrdering(t *testing.T) {
	locs := []Location{
		{File: "b.py", StartLine: 1, EndLine: 4},
		{File: "a.py", StartLine: 9, EndLine: 12},
		{File: "a.py", StartLine: 2, EndLine: 8},
		{File: "a.py", StartLine: 2, EndLine: 5},
	}
	SortLocations(locs)
	assert.Equal(t, []Location{
		{File: "a.py", StartLine: 2, EndLine: 5},
		{File: "a.py", StartLine: 2, EndLine: 8},
		{File: "a.py", StartLine: 9, EndLine: 12},
		{File: "b.py", StartLine: 1, EndLine: 4},
	}, locs)
	assert.Equal(t, "a.py:2", locs[0].String())
}

func TestLocationOverlaps(t *testing.T) {
	a := Location{File: "a.py", StartLine: 3, EndLine: 6}
	tests := []struct {
		name string
		o    Location
		want bool
	}{
		{"same range", a, true},
		{"touching end", Location{File: "a.py", StartLine: 6, EndLine: 9}, true},
		{"after", Location{File: "a.py", StartLine: 7, EndLine: 9}, false},
		{"before", Location{File: "a.py", StartLine: 1, EndLine: 2}, false},
		{"other file", Location{File: "b.py", StartLine: 3, EndLine: 6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.o))
			assert.Equal(t, tt.want, tt.o.Overlaps(a))
		})
	}
}

func TestSortViolations(t *testing.T) {
	loc := Location{File: "a.py", StartLine: 1, EndLine: 1}
	vs := []Violation{
		{Category: CategorySimilarConstant, Primary: loc},
		{Category: CategoryDuplicateCode, Primary: Location{File: "b.py", StartLine: 1, EndLine: 3}},
		{Category: CategoryDuplicateConstant, Primary: loc},
	}
	SortViolations(vs)
	assert.Equal(t, CategoryDuplicateConstant, vs[0].Category)
	assert.Equal(t, CategorySimilarConstant, vs[1].Category)
	assert.Equal(t, "b.py", vs[2].Primary.File)
}

func TestLanguageKnown(t *testing.T) {
	for _, l := range Languages {
		assert.True(t, l.Known(), l)
	}
	assert.False(t, LangUnknown.Known())
	assert.False(t, Language("cobol").Known())
}

func TestGroupMembersSorted(t *testing.T) {
	g := DuplicateGroup{Members: []Member{
		{Location: Location{File: "z.py", StartLine: 1}},
		{Location: Location{File: "a.py", StartLine: 5}},
	}}
	g.SortMembers()
	assert.Equal(t, "a.py", g.Members[0].Location.File)
	assert.Equal(t, 2, g.OccurrenceCount())
}
