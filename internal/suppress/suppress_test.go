package suppress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/dupscan/internal/model"
)

func loc(file string, start, end int) model.Location {
	return model.Location{File: file, StartLine: start, EndLine: end}
}

func TestSpans_Covered(t *testing.T) {
	s := New()
	s.Add("a.py", 10, 20)
	s.Add("a.py", 30, 40, model.CategoryDuplicateCode)

	tests := []struct {
		name string
		cat  model.Category
		loc  model.Location
		want bool
	}{
		{"inside all-category span", model.CategorySimilarConstant, loc("a.py", 12, 18), true},
		{"exact bounds", model.CategoryDuplicateCode, loc("a.py", 10, 20), true},
		{"partially covered", model.CategoryDuplicateCode, loc("a.py", 15, 25), false},
		{"category span", model.CategoryDuplicateCode, loc("a.py", 31, 35), true},
		{"other category", model.CategoryDuplicateConstant, loc("a.py", 31, 35), false},
		{"other file", model.CategoryDuplicateCode, loc("b.py", 12, 18), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Covered(tt.cat, tt.loc))
		})
	}
	assert.Equal(t, 2, s.Len())
}

func TestSpans_AdjacentSpansMerge(t *testing.T) {
	s := New()
	s.Add("a.go", 1, 5)
	s.Add("a.go", 6, 9, model.CategoryDuplicateCode)

	assert.True(t, s.Covered(model.CategoryDuplicateCode, loc("a.go", 3, 8)))
	assert.False(t, s.Covered(model.CategoryDuplicateConstant, loc("a.go", 3, 8)))
}

func TestSpans_NilIsEmpty(t *testing.T) {
	var s *Spans
	assert.False(t, s.Covered(model.CategoryDuplicateCode, loc("a.go", 1, 1)))
}

func TestParse(t *testing.T) {
	src := []byte(`x = 1
# dupscan:ignore
y = 2
// dupscan:ignore[duplicate-code, similar-constant] 3
/* dupscan:ignore-start[duplicate-constant] */
-- dupscan:ignore-end
z = "dupscan:ignore not a comment"
# dupscan:ignore[bogus]
`)
	dirs := Parse(src, 0)
	require.Len(t, dirs, 5)

	assert.Equal(t, Directive{Kind: "ignore", Line: 2, Count: DefaultSpanLines}, dirs[0])
	assert.Equal(t, 4, dirs[1].Line)
	assert.Equal(t, 3, dirs[1].Count)
	assert.Equal(t, []model.Category{model.CategoryDuplicateCode, model.CategorySimilarConstant}, dirs[1].Categories)
	assert.Equal(t, "ignore-start", dirs[2].Kind)
	assert.Equal(t, []model.Category{model.CategoryDuplicateConstant}, dirs[2].Categories)
	assert.Equal(t, "ignore-end", dirs[3].Kind)
	assert.Equal(t, 8, dirs[4].Line)
	assert.Empty(t, dirs[4].Categories, "unknown categories are dropped")
}

func TestScan(t *testing.T) {
	src := []byte(`a
# dupscan:ignore 2
b
c
d
# dupscan:ignore-start[duplicate-code]
e
f
# dupscan:ignore-end
g
# dupscan:ignore-start
h`)
	s := New()
	n := s.Scan("f.py", src, 10)
	assert.Equal(t, 4, n)

	assert.True(t, s.Covered(model.CategoryDuplicateConstant, loc("f.py", 3, 4)))
	assert.False(t, s.Covered(model.CategoryDuplicateConstant, loc("f.py", 3, 5)))
	assert.True(t, s.Covered(model.CategoryDuplicateCode, loc("f.py", 7, 8)))
	assert.False(t, s.Covered(model.CategoryDuplicateConstant, loc("f.py", 7, 8)))
	assert.False(t, s.Covered(model.CategoryDuplicateCode, loc("f.py", 10, 10)))
	assert.True(t, s.Covered(model.CategorySimilarConstant, loc("f.py", 12, 12)), "unterminated region runs to EOF")
}

func TestScan_DefaultSpan(t *testing.T) {
	s := New()
	s.Scan("f.py", []byte("# dupscan:ignore\n"), 4)
	assert.True(t, s.Covered(model.CategoryDuplicateCode, loc("f.py", 2, 5)))
	assert.False(t, s.Covered(model.CategoryDuplicateCode, loc("f.py", 2, 6)))
}

func TestScan_NoDirectives(t *testing.T) {
	s := New()
	assert.Zero(t, s.Scan("f.py", []byte("x = 1\n"), 0))
	assert.Zero(t, s.Len())
}
