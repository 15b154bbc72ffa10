package hist

import (
	"math"

	"github.com/tobsdb/traceeval/types"
)

// Entry is one row of a table. Its records are owned by the table and must
// not be modified.
type Entry struct {
	keys types.Record
	vals types.Record
	hits uint64
	// indexed like vals; only stats fields are used
	stats   []RunningStat
	private any
}

func (e *Entry) Keys() types.Record   { return e.keys }
func (e *Entry) Values() types.Record { return e.vals }
func (e *Entry) Hits() uint64         { return e.hits }
func (e *Entry) Private() any         { return e.private }

// RunningStat accumulates the samples of one stats field.
type RunningStat struct {
	Count uint64
	Min   uint64
	Max   uint64
	Sum   uint64

	SumSquares float64
}

func (s *RunningStat) Add(sample uint64) {
	if s.Count == 0 || sample < s.Min {
		s.Min = sample
	}
	if sample > s.Max {
		s.Max = sample
	}
	s.Count++
	s.Sum += sample
	s.SumSquares += float64(sample) * float64(sample)
}

func (s *RunningStat) value(kind StatKind) uint64 {
	switch kind {
	case StatCount:
		return s.Count
	case StatMin:
		return s.Min
	case StatMax:
		return s.Max
	case StatTotal:
		return s.Sum
	case StatAvg:
		return s.Stat().Avg
	}
	return 0
}

// Stat is the summary of a RunningStat. Avg is the integer mean.
type Stat struct {
	Count uint64
	Min   uint64
	Max   uint64
	Total uint64
	Avg   uint64
	Std   float64
}

func (s RunningStat) Stat() Stat {
	if s.Count == 0 {
		return Stat{}
	}

	mean := float64(s.Sum) / float64(s.Count)
	variance := s.SumSquares/float64(s.Count) - mean*mean
	if variance < 0 {
		variance = 0
	}

	return Stat{
		Count: s.Count,
		Min:   s.Min,
		Max:   s.Max,
		Total: s.Sum,
		Avg:   s.Sum / s.Count,
		Std:   math.Sqrt(variance),
	}
}
