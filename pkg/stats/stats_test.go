package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artiomtarasiuk/log-analyzer/pkg/parser"
)

func TestBuildSingleEndpoint(test *testing.T) {
	as := assert.New(test)

	records := Build(parser.EndpointLatencies{
		"test.com": {0.39, 0.133, 0.199, 0.704},
	})

	as.Len(records, 1)
	as.Equal(Record{
		URL:       "test.com",
		Count:     4,
		CountPerc: 100,
		TimeSum:   1.426,
		TimePerc:  100,
		TimeAvg:   0.356,
		TimeMax:   0.704,
		TimeMed:   0.294,
	}, records[0])
}

func TestBuildEmpty(test *testing.T) {
	as := assert.New(test)

	as.Empty(Build(parser.EndpointLatencies{}))
	as.Empty(Build(nil))
}

func TestBuildSharesSumTo100(test *testing.T) {
	as := assert.New(test)

	records := Build(parser.EndpointLatencies{
		"/a": {0.1, 0.2, 0.3},
		"/b": {1.5},
		"/c": {0.017, 0.33},
		"/d": {2.001, 0.04, 0.04, 0.04},
	})
	as.Len(records, 4)

	countPerc, timePerc := 0.0, 0.0
	for _, record := range records {
		countPerc += record.CountPerc
		timePerc += record.TimePerc
	}
	tolerance := 0.001 * float64(len(records))
	as.InDelta(100, countPerc, tolerance)
	as.InDelta(100, timePerc, tolerance)
}

func TestBuildOddMedian(test *testing.T) {
	as := assert.New(test)

	records := Build(parser.EndpointLatencies{
		"/a": {0.5, 0.1, 0.9},
	})
	as.Len(records, 1)
	as.Equal(0.5, records[0].TimeMed)
}

func TestBuildMaxIsUnrounded(test *testing.T) {
	as := assert.New(test)

	records := Build(parser.EndpointLatencies{
		"/a": {0.70449, 0.1},
	})
	as.Len(records, 1)
	as.Equal(0.70449, records[0].TimeMax)
	as.Equal(0.804, records[0].TimeSum)
}

func TestBuildIsDeterministic(test *testing.T) {
	as := assert.New(test)

	latencies := parser.EndpointLatencies{
		"/a": {0.133, 0.199, 0.704, 0.39},
		"/b": {0.01, 0.02},
		"/c": {1.2, 3.4, 5.6},
	}
	first := Build(latencies)
	for i := 0; i < 5; i++ {
		as.Equal(first, Build(latencies))
	}
}

func TestTopN(test *testing.T) {
	as := assert.New(test)

	records := []Record{
		{URL: "/small", TimeSum: 0.5},
		{URL: "/big", TimeSum: 9.5},
		{URL: "/tie-b", TimeSum: 2},
		{URL: "/tie-a", TimeSum: 2},
		{URL: "/mid", TimeSum: 3.2},
	}

	top := TopN(records, 3)
	as.Equal([]string{"/big", "/mid", "/tie-a"}, urls(top))

	// ties break by url, descending time_sum otherwise
	all := TopN(records, 100)
	as.Equal([]string{"/big", "/mid", "/tie-a", "/tie-b", "/small"}, urls(all))

	// input order is untouched
	as.Equal("/small", records[0].URL)
	as.Equal("/mid", records[4].URL)

	as.Empty(TopN(records, 0))
	as.Empty(TopN(nil, 10))
}

func TestTopNIdempotent(test *testing.T) {
	as := assert.New(test)

	records := []Record{
		{URL: "/b", TimeSum: 1},
		{URL: "/a", TimeSum: 2},
	}
	once := TopN(records, 10)
	as.Equal(once, TopN(once, 10))
}

func urls(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.URL)
	}
	return out
}
