package relation

import (
	"strings"
)

// waitEventRule turns a free-text wait line into an event name. Rules are
// tried in order and the first match wins; unmatched lines are dropped.
type waitEventRule struct {
	name  string
	match func(line, lower string) (string, bool)
}

var waitEventRules = []waitEventRule{
	{name: "enqueue", match: wholeLineIf("enq:")},
	{name: "latch", match: wholeLineIf("latch:")},
	{name: "db file", match: wholeLineIf("db file")},
	{name: "described", match: beforeSeparator(" - ")},
	{name: "keyword", match: keywordWords(waitKeywords, 4)},
}

var waitKeywords = []string{"enq", "latch", "lock", "wait", "db", "log", "buffer", "cpu"}

func wholeLineIf(substr string) func(line, lower string) (string, bool) {
	return func(line, lower string) (string, bool) {
		return line, strings.Contains(lower, substr)
	}
}

func beforeSeparator(sep string) func(line, lower string) (string, bool) {
	return func(line, lower string) (string, bool) {
		idx := strings.Index(line, sep)
		if idx < 0 {
			return "", false
		}
		return strings.TrimSpace(line[:idx]), true
	}
}

// keywordWords takes up to maxWords words starting at the first word that
// contains one of keywords.
func keywordWords(keywords []string, maxWords int) func(line, lower string) (string, bool) {
	return func(line, lower string) (string, bool) {
		parts := strings.Fields(line)
		for i, part := range parts {
			p := strings.ToLower(part)
			for _, kw := range keywords {
				if !strings.Contains(p, kw) {
					continue
				}
				end := i + maxWords
				if end > len(parts) {
					end = len(parts)
				}
				return strings.Join(parts[i:end], " "), true
			}
		}
		return "", false
	}
}

// ClassifyWaitEvent names the wait event a line describes.
func ClassifyWaitEvent(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, rule := range waitEventRules {
		if event, ok := rule.match(line, lower); ok && len(event) > 0 {
			return event, true
		}
	}
	return "", false
}

// CountWaitEvents classifies every line into c.
func CountWaitEvents(lines []string, c *Counter) {
	for _, line := range lines {
		if event, ok := ClassifyWaitEvent(line); ok {
			c.Add(event, 1)
		}
	}
}

// waitTypeEvents maps the short wait type of a blocking-session row to the
// event it usually stands for. First prefix match wins.
var waitTypeEvents = []struct {
	prefix string
	event  string
}{
	{"enq", "enq: TX - row lock contention"},
	{"db", "db file sequential read"},
	{"latch", "latch: cache buffers chains"},
	{"buffer", "buffer busy waits"},
	{"log", "log file sync"},
}

// CanonicalWaitEvent maps a short wait type such as "enq" to an event name.
func CanonicalWaitEvent(waitType string) (string, bool) {
	lower := strings.ToLower(waitType)
	for _, m := range waitTypeEvents {
		if strings.HasPrefix(lower, m.prefix) {
			return m.event, true
		}
	}
	return "", false
}

type WaitEventDetail struct {
	Event       string  `json:"event" yaml:"event"`
	Count       int64   `json:"count" yaml:"count"`
	TotalTimeMs float64 `json:"total_time_ms" yaml:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms" yaml:"avg_time_ms"`
	Percentage  float64 `json:"percentage" yaml:"percentage"`
}

// waitTimePerCount is the time assumed for one wait when only counts exist.
const waitTimePerCount = 1.0

// WaitEventDetails estimates time spent per event for the events in top.
// Blocking-session rows `... wait_type sid count` (at least 7 tokens) add
// their count to the event their wait type maps to, either through
// CanonicalWaitEvent or by matching an already counted event.
func WaitEventDetails(waits *Counter, top []Count, blockingLines []string) []WaitEventDetail {
	type detail struct {
		count int64
		total float64
	}
	details := make(map[string]*detail, waits.Len())
	for _, key := range waits.Keys() {
		details[key] = &detail{count: waits.Get(key)}
	}

	for _, line := range blockingLines {
		parts := strings.Fields(line)
		if len(parts) < 7 || !isDigits(parts[6]) {
			continue
		}
		count := parseDigits(parts[6])
		event, ok := CanonicalWaitEvent(parts[4])
		if !ok {
			event, ok = matchCountedEvent(waits, parts[4])
		}
		if !ok {
			continue
		}
		d, ok := details[event]
		if !ok {
			continue
		}
		d.total += float64(count) * waitTimePerCount
		if count > d.count {
			d.count = count
		}
	}

	var totalTime float64
	for _, d := range details {
		totalTime += d.total
	}

	res := make([]WaitEventDetail, 0, len(top))
	for _, t := range top {
		wd := WaitEventDetail{Event: t.Key, Count: t.Count}
		if d, ok := details[t.Key]; ok {
			wd.TotalTimeMs = d.total
			if d.count > 0 {
				wd.AvgTimeMs = d.total / float64(d.count)
			}
			if totalTime > 0 {
				wd.Percentage = d.total / totalTime * 100
			}
		}
		res = append(res, wd)
	}
	return res
}

func matchCountedEvent(waits *Counter, waitType string) (string, bool) {
	wt := strings.ToLower(waitType)
	for _, key := range waits.Keys() {
		k := strings.ToLower(key)
		if strings.Contains(k, wt) || strings.HasPrefix(k, wt) {
			return key, true
		}
	}
	return "", false
}
