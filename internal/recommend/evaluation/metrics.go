// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package evaluation

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cfbench/internal/recommend"
)

var (
	// ErrUndefinedMetric is the class of errors for metrics whose
	// denominator is zero.
	ErrUndefinedMetric = errors.New("metric undefined")

	// ErrNoMatchedPairs is returned when no prediction has a ground-truth
	// rating, leaving MAE and RMSE undefined.
	ErrNoMatchedPairs = fmt.Errorf("%w: no prediction matched a ground-truth rating", ErrUndefinedMetric)
)

// Metric is a scalar that may be undefined.
type Metric struct {
	Value   float64
	Defined bool
}

// Defined returns a defined metric.
func Defined(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

// Undefined returns an undefined metric.
func Undefined() Metric {
	return Metric{}
}

// ratio returns num/den, undefined when den is zero.
func ratio(num, den int) Metric {
	if den == 0 {
		return Undefined()
	}
	return Defined(float64(num) / float64(den))
}

// String renders the value with four decimals, or "undefined".
func (m Metric) String() string {
	if !m.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(m.Value, 'f', 4, 64)
}

// Ptr returns a pointer to the value, or nil when undefined.
func (m Metric) Ptr() *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Value
	return &v
}

// MarshalJSON encodes an undefined metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as an undefined metric.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Defined(v)
	return nil
}

// ErrorMetrics holds rating-error statistics.
type ErrorMetrics struct {
	MAE   Metric `json:"mae"`
	RMSE  Metric `json:"rmse"`
	Pairs int    `json:"pairs"`
}

// RelevanceMetrics holds top-N relevance statistics.
type RelevanceMetrics struct {
	TruePositive  int    `json:"true_positive"`
	FalsePositive int    `json:"false_positive"`
	FalseNegative int    `json:"false_negative"`
	Precision     Metric `json:"precision"`
	Recall        Metric `json:"recall"`
}

// Merge adds the counts of other and recomputes precision and recall.
func (r RelevanceMetrics) Merge(other RelevanceMetrics) RelevanceMetrics {
	return relevanceFromCounts(
		r.TruePositive+other.TruePositive,
		r.FalsePositive+other.FalsePositive,
		r.FalseNegative+other.FalseNegative,
	)
}

func relevanceFromCounts(tp, fp, fn int) RelevanceMetrics {
	return RelevanceMetrics{
		TruePositive:  tp,
		FalsePositive: fp,
		FalseNegative: fn,
		Precision:     ratio(tp, tp+fp),
		Recall:        ratio(tp, tp+fn),
	}
}

type pairKey struct {
	user, item int
}

func indexTruth(groundTruth []recommend.Rating) map[pairKey]float64 {
	truth := make(map[pairKey]float64, len(groundTruth))
	for _, r := range groundTruth {
		truth[pairKey{r.UserID, r.ItemID}] = r.Score
	}
	return truth
}

// ComputeErrorMetrics computes MAE and RMSE over predictions with a matching
// ground-truth rating. With zero matched pairs both metrics are undefined and
// ErrNoMatchedPairs is returned alongside them.
func ComputeErrorMetrics(predictions []recommend.Prediction, groundTruth []recommend.Rating) (ErrorMetrics, error) {
	truth := indexTruth(groundTruth)

	var absSum, sqSum float64
	pairs := 0
	for _, p := range predictions {
		actual, ok := truth[pairKey{p.UserID, p.ItemID}]
		if !ok {
			continue
		}
		diff := p.Score - actual
		absSum += math.Abs(diff)
		sqSum += diff * diff
		pairs++
	}

	if pairs == 0 {
		return ErrorMetrics{}, ErrNoMatchedPairs
	}

	n := float64(pairs)
	return ErrorMetrics{
		MAE:   Defined(absSum / n),
		RMSE:  Defined(math.Sqrt(sqSum / n)),
		Pairs: pairs,
	}, nil
}

// ComputeRelevanceMetrics scores recommendations that have a ground-truth
// rating. A score above threshold counts as relevant; true negatives are not
// counted.
func ComputeRelevanceMetrics(recommendations []recommend.Prediction, groundTruth []recommend.Rating, threshold float64) RelevanceMetrics {
	truth := indexTruth(groundTruth)

	var tp, fp, fn int
	for _, p := range recommendations {
		actual, ok := truth[pairKey{p.UserID, p.ItemID}]
		if !ok {
			continue
		}
		predictedRelevant := p.Score > threshold
		actualRelevant := actual > threshold
		switch {
		case predictedRelevant && actualRelevant:
			tp++
		case predictedRelevant:
			fp++
		case actualRelevant:
			fn++
		}
	}

	return relevanceFromCounts(tp, fp, fn)
}

// TopN returns the first n predictions of every user, ordered by user id,
// then score descending, then item id. A non-positive n returns all of them.
func TopN(predictions []recommend.Prediction, n int) []recommend.Prediction {
	sorted := make([]recommend.Prediction, len(predictions))
	copy(sorted, predictions)
	recommend.SortPredictions(sorted)
	if n <= 0 {
		return sorted
	}

	out := make([]recommend.Prediction, 0, len(sorted))
	taken := 0
	for i, p := range sorted {
		if i == 0 || p.UserID != sorted[i-1].UserID {
			taken = 0
		}
		if taken < n {
			out = append(out, p)
			taken++
		}
	}
	return out
}
