// Package progress reduces longitudinal performance records into per-topic
// statistics. It is a pure read-side reduction: absence of data yields empty
// results, never errors.
package progress

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Record is a single dated performance metric. Records are append-only and
// owned by the grading collaborator; this package consumes them read-only.
type Record struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	MetricName  string    `json:"metric_name"`
	MetricValue float64   `json:"metric_value"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// TopicStat is the derived per-topic aggregate. Recomputed on every pass,
// never persisted.
type TopicStat struct {
	Topic       string  `json:"topic"`
	Average     float64 `json:"average"`
	SampleCount int     `json:"records_count"`
	Trend       float64 `json:"trend"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// Summary is the full aggregation output.
type Summary struct {
	// Overall is the mean of the per-topic averages, 0 when no topic has data.
	Overall float64
	// Stats holds one entry per topic with data, in Topics order.
	Stats []TopicStat
	// ScoredCount is the number of records that participated in scoring math.
	ScoredCount int
	// TotalCount is the raw record count, including durations and counts.
	TotalCount int
}

// Topics is the fixed topic vocabulary, in matching priority order.
// A metric belongs to at most one topic: the first vocabulary entry whose
// name appears in the metric name wins.
var Topics = []string{"algebra", "geometry", "trigonometry", "calculus"}

// recentWindow caps how many of the newest samples form the "recent" side
// of the trend split.
const recentWindow = 5

// TopicFor returns the topic a metric name belongs to, or false if none.
func TopicFor(metricName string) (string, bool) {
	name := strings.ToLower(metricName)
	for _, t := range Topics {
		if strings.Contains(name, t) {
			return t, true
		}
	}
	return "", false
}

// isScoreMetric reports whether a metric participates in scoring math.
// Durations and counts are excluded from averages but still count raw.
func isScoreMetric(name string) bool {
	return strings.Contains(strings.ToLower(name), "score")
}

// Aggregate reduces a record set into per-topic stats and an overall score.
func Aggregate(records []Record) Summary {
	sum := Summary{TotalCount: len(records)}

	scored := lo.Filter(records, func(r Record, _ int) bool {
		return isScoreMetric(r.MetricName)
	})
	sum.ScoredCount = len(scored)

	for _, topic := range Topics {
		stat, ok := AggregateTopic(records, topic)
		if !ok {
			continue
		}
		sum.Stats = append(sum.Stats, stat)
	}

	if len(sum.Stats) > 0 {
		total := lo.SumBy(sum.Stats, func(s TopicStat) float64 { return s.Average })
		sum.Overall = round1(total / float64(len(sum.Stats)))
	}
	return sum
}

// AggregateTopic computes the stat for one topic. The second return is false
// when no score record matches the topic; such topics are omitted from
// output rather than reported as zero.
func AggregateTopic(records []Record, topic string) (TopicStat, bool) {
	matching := lo.Filter(records, func(r Record, _ int) bool {
		if !isScoreMetric(r.MetricName) {
			return false
		}
		t, ok := TopicFor(r.MetricName)
		return ok && t == topic
	})
	if len(matching) == 0 {
		return TopicStat{}, false
	}

	values := lo.Map(matching, func(r Record, _ int) float64 { return r.MetricValue })

	stat := TopicStat{
		Topic:       topic,
		Average:     round1(mean(values)),
		SampleCount: len(matching),
		Min:         round1(lo.Min(values)),
		Max:         round1(lo.Max(values)),
		Trend:       round1(trend(matching)),
	}
	return stat, true
}

// trend splits records by recording time ascending into recent (the last
// min(5, n)) and older (the remainder) and returns mean(recent) - mean(older),
// 0 when the older side is empty.
func trend(records []Record) float64 {
	byTime := make([]Record, len(records))
	copy(byTime, records)
	sort.SliceStable(byTime, func(i, j int) bool {
		return byTime[i].RecordedAt.Before(byTime[j].RecordedAt)
	})

	n := len(byTime)
	recent := recentWindow
	if n < recent {
		recent = n
	}
	older := byTime[:n-recent]
	if len(older) == 0 {
		return 0
	}

	recentMean := mean(lo.Map(byTime[n-recent:], func(r Record, _ int) float64 { return r.MetricValue }))
	olderMean := mean(lo.Map(older, func(r Record, _ int) float64 { return r.MetricValue }))
	return recentMean - olderMean
}

// IsPoorPerforming applies the remediation threshold: overall under 60
// percent, or at least two weak topics.
func IsPoorPerforming(overall float64, weakTopicCount int) bool {
	return overall < 60 || weakTopicCount >= 2
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
