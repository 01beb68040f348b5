package stats

import (
	"sort"
	"strconv"

	"github.com/artiomtarasiuk/log-analyzer/pkg/parser"
)

// Record is the per-url aggregate emitted into the report table.
// time_max stays unrounded; the other derived times round to 3 decimals.
type Record struct {
	URL       string  `json:"url"`
	Count     int     `json:"count"`
	CountPerc float64 `json:"count_perc"`
	TimeSum   float64 `json:"time_sum"`
	TimePerc  float64 `json:"time_perc"`
	TimeAvg   float64 `json:"time_avg"`
	TimeMax   float64 `json:"time_max"`
	TimeMed   float64 `json:"time_med"`
}

// Build derives one Record per url from the aggregated latency lists.
// Totals are accumulated over the whole mapping first, then each record's
// shares are computed against them, always from unrounded sums. Urls are
// visited in sorted order so every float accumulation happens in a fixed
// order and repeated runs produce identical output. An empty mapping
// yields no records.
func Build(latencies parser.EndpointLatencies) []Record {
	if len(latencies) == 0 {
		return nil
	}

	urls := make([]string, 0, len(latencies))
	for url := range latencies {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	totalCount := 0
	totalTime := 0.0
	sums := make(map[string]float64, len(latencies))
	for _, url := range urls {
		times := latencies[url]
		totalCount += len(times)
		sum := 0.0
		for _, t := range times {
			sum += t
		}
		sums[url] = sum
		totalTime += sum
	}

	records := make([]Record, 0, len(latencies))
	for _, url := range urls {
		times := latencies[url]
		count := len(times)
		sum := sums[url]
		max := 0.0
		for _, t := range times {
			if t > max {
				max = t
			}
		}
		records = append(records, Record{
			URL:       url,
			Count:     count,
			CountPerc: round3(float64(count) / float64(totalCount) * 100),
			TimeSum:   round3(sum),
			TimePerc:  round3(sum / totalTime * 100),
			TimeAvg:   round3(sum / float64(count)),
			TimeMax:   max,
			TimeMed:   round3(median(times)),
		})
	}
	return records
}

// TopN returns the n largest records by time_sum, descending, ties broken
// by url so the result is deterministic under randomized map iteration.
// The input slice is left untouched.
func TopN(records []Record, n int) []Record {
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TimeSum != ranked[j].TimeSum {
			return ranked[i].TimeSum > ranked[j].TimeSum
		}
		return ranked[i].URL < ranked[j].URL
	})
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// median of an even-length list is the mean of the two middle values.
func median(times []float64) float64 {
	ordered := make([]float64, len(times))
	copy(ordered, times)
	sort.Float64s(ordered)

	mid := len(ordered) / 2
	if len(ordered)%2 == 1 {
		return ordered[mid]
	}
	return (ordered[mid-1] + ordered[mid]) / 2
}

// round3 rounds to 3 decimal places through decimal formatting, which
// rounds the exact binary value rather than a base-10 approximation of it.
// Scaling by 1000 and calling math.Round would misround values such as
// 0.2945, whose closest float64 lies below the half-way point even though
// the scaled product lands exactly on 294.5.
func round3(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return r
}
