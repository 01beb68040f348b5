package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// requestPattern matches one access-log request line: method, url, the
// HTTP version marker, then anything up to a trailing request time in
// seconds. The url is taken verbatim, query string included.
var requestPattern = regexp.MustCompile(`(?:POST|GET|HEAD|PUT|OPTIONS)\s+(\S+)\s+HTTP/\d\.\d"\s.+\s(\d+\.\d+)$`)

var (
	// ErrNoRecords means the stream had no lines at all.
	ErrNoRecords = errors.New("log stream contains no records")
	// ErrNoParseableData means lines were read but none matched the request pattern.
	ErrNoParseableData = errors.New("no line matched the request pattern")
	// ErrHighFailureRatio means too many lines failed extraction relative to the threshold.
	ErrHighFailureRatio = errors.New("high failed lines ratio")
)

// Sample is one extracted (url, request time) observation.
type Sample struct {
	URL     string
	Latency float64
}

// EndpointLatencies maps a url to every request time observed for it,
// in stream order.
type EndpointLatencies map[string][]float64

// ExtractSample matches a single raw line against the request pattern.
// A non-matching line is a recognized outcome, not an error.
func ExtractSample(line string) (Sample, bool) {
	m := requestPattern.FindStringSubmatch(line)
	if m == nil {
		return Sample{}, false
	}
	latency, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Sample{}, false
	}
	return Sample{URL: m[1], Latency: latency}, true
}

// Parse folds a newline-delimited log stream into per-url latency lists.
// Unparseable lines are counted and skipped; once the stream is exhausted
// the failed/parsed ratio is checked against errorThreshold. The zero-parsed
// cases are checked first so the ratio never divides by zero:
// an empty stream yields ErrNoRecords, a stream where every line failed
// yields ErrNoParseableData.
func Parse(r io.Reader, errorThreshold float64) (EndpointLatencies, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	latencies := EndpointLatencies{}
	parsed, failed := 0, 0
	for scanner.Scan() {
		sample, ok := ExtractSample(scanner.Text())
		if !ok {
			failed++
			continue
		}
		latencies[sample.URL] = append(latencies[sample.URL], sample.Latency)
		parsed++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log stream: %w", err)
	}

	if parsed == 0 {
		if failed == 0 {
			return nil, ErrNoRecords
		}
		return nil, fmt.Errorf("%w: %d lines attempted", ErrNoParseableData, failed)
	}
	ratio := float64(failed) / float64(parsed)
	if ratio > errorThreshold {
		return nil, fmt.Errorf("%w: %.3f exceeds threshold %.3f", ErrHighFailureRatio, ratio, errorThreshold)
	}

	log.WithFields(log.Fields{
		"parsed": parsed,
		"failed": failed,
		"urls":   len(latencies),
	}).Debug("log stream parsed")
	return latencies, nil
}
