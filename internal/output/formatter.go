// Package output renders a scan's violations in the formats the CLI offers.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/davetashner/dupscan/internal/engine"
	"github.com/davetashner/dupscan/internal/model"
)

// Report is everything a formatter renders for one run.
type Report struct {
	RunID       string
	Root        string
	Version     string
	GeneratedAt time.Time
	Violations  []model.Violation
	Stats       engine.Stats
}

// Formatter writes a report to the given writer in a specific format.
type Formatter interface {
	// Name returns the format name (e.g., "text", "json", "sarif").
	Name() string

	// Format writes the report to w.
	Format(r Report, w io.Writer) error
}

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

// RegisterFormatter adds a formatter to the global registry.
func RegisterFormatter(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// GetFormatter returns the formatter with the given name, or an error if not found.
func GetFormatter(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q (available: %s)", name, strings.Join(formatNames(), ", "))
	}
	return f, nil
}

// Names returns the registered format names, sorted.
func Names() []string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	return formatNames()
}

func formatNames() []string {
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resetFmtForTesting clears the formatter registry. Only for use in tests.
func resetFmtForTesting() {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry = make(map[string]Formatter)
}

// categoryCounts counts violations per category, in Categories order.
func categoryCounts(vs []model.Violation) []int {
	counts := make([]int, len(model.Categories))
	for _, v := range vs {
		for i, c := range model.Categories {
			if v.Category == c {
				counts[i]++
			}
		}
	}
	return counts
}

// span renders a location as file:start-end, or file:line for one line.
func span(l model.Location) string {
	if l.EndLine > l.StartLine {
		return fmt.Sprintf("%s:%d-%d", l.File, l.StartLine, l.EndLine)
	}
	return l.String()
}
