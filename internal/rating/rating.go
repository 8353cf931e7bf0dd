package rating

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// Marker is the literal substring the model is instructed to emit in front
// of the numeric rating.
const Marker = "Overall Rating:"

// Band classifies a rating into a qualitative quality band.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// Parse extracts the rating from free-form feedback text. The model's output
// format is never trusted: the first Marker occurrence is located, the text
// up to the next line break is taken, then the text up to the next "/", and
// the remainder is parsed as a float. Any failure yields (0, false).
//
// Values outside [0,10] are passed through verbatim; BandFor saturates.
func Parse(feedback string) (float64, bool) {
	idx := strings.Index(feedback, Marker)
	if idx < 0 {
		return 0, false
	}

	rest := feedback[idx+len(Marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		rest = rest[:slash]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// BandFor maps a rating to its quality band: <4 low, [4,7) mid, >=7 high.
func BandFor(r float64) Band {
	switch {
	case r < 4:
		return BandLow
	case r < 7:
		return BandMid
	default:
		return BandHigh
	}
}

// Summary aggregates the parsable ratings of a history window.
type Summary struct {
	TotalRecords int     `json:"total_records"`
	RatedRecords int     `json:"rated_records"`
	Average      float64 `json:"average"`
	Best         float64 `json:"best"`
}

// HasData reports whether any record contributed a rating.
func (s Summary) HasData() bool {
	return s.RatedRecords > 0
}

// Summarize computes aggregate statistics over feedback texts. Records whose
// rating cannot be parsed are excluded from every aggregate, not counted as
// zero.
func Summarize(feedbacks []string) Summary {
	summary := Summary{TotalRecords: len(feedbacks)}

	var ratings []float64
	for _, fb := range feedbacks {
		if value, ok := Parse(fb); ok {
			ratings = append(ratings, value)
		}
	}

	if len(ratings) == 0 {
		return summary
	}

	summary.RatedRecords = len(ratings)

	// stats errors only on empty input, which is excluded above.
	summary.Average, _ = stats.Mean(ratings)
	summary.Best, _ = stats.Max(ratings)

	return summary
}
