package csvsplit

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Summary tallies one run.
type Summary struct {
	Total   int64
	counts  map[string]int64
	start   time.Time
	elapsed time.Duration
	now     func() time.Time
}

func newSummary(now func() time.Time) *Summary {
	return &Summary{
		counts: map[string]int64{},
		start:  now(),
		now:    now,
	}
}

func (s *Summary) add(label string) {
	s.counts[label]++
}

func (s *Summary) stop() {
	s.elapsed = s.now().Sub(s.start)
}

func (s *Summary) Elapsed() time.Duration {
	return s.elapsed
}

// Count returns the rows written for label.
func (s *Summary) Count(label string) int64 {
	return s.counts[label]
}

// Labels returns every label written to, sorted ascending.
func (s *Summary) Labels() []string {
	ret := make([]string, 0, len(s.counts))
	for l := range s.counts {
		ret = append(ret, l)
	}
	sort.Strings(ret)
	return ret
}

// Written is the sum over all labels. It exceeds Total when rows were
// duplicated across several groups.
func (s *Summary) Written() int64 {
	var n int64
	for _, c := range s.counts {
		n += c
	}
	return n
}

func (s *Summary) fprintElapsed(w io.Writer) {
	fmt.Fprintf(w, "Elapsed: %.2f seconds\n", s.elapsed.Seconds())
}

// FprintSplit writes the splitter report.
func (s *Summary) FprintSplit(w io.Writer) {
	s.fprintElapsed(w)
	fmt.Fprintf(w, "Total rows: %d\n", s.Total)
	for _, l := range s.Labels() {
		fmt.Fprintf(w, "%s: %d\n", l, s.counts[l])
	}
}

// FprintSelect writes the selector report.
func (s *Summary) FprintSelect(w io.Writer, output string) {
	s.fprintElapsed(w)
	fmt.Fprintf(w, "Completed: %d rows written to %s\n", s.Total, output)
}
