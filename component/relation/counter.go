package relation

import (
	"sort"

	"github.com/wangjohn/quickselect"
)

type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int64  `json:"count" yaml:"count"`
}

// Counter counts keys and remembers the order in which they were first seen.
type Counter struct {
	index  map[string]int
	counts []Count
}

func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

func (c *Counter) Add(key string, n int64) {
	if idx, ok := c.index[key]; ok {
		c.counts[idx].Count += n
		return
	}
	c.index[key] = len(c.counts)
	c.counts = append(c.counts, Count{Key: key, Count: n})
}

func (c *Counter) Get(key string) int64 {
	if idx, ok := c.index[key]; ok {
		return c.counts[idx].Count
	}
	return 0
}

func (c *Counter) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

func (c *Counter) Len() int {
	return len(c.counts)
}

// Keys returns the keys in first-seen order.
func (c *Counter) Keys() []string {
	keys := make([]string, 0, len(c.counts))
	for _, cnt := range c.counts {
		keys = append(keys, cnt.Key)
	}
	return keys
}

// MostCommon returns the n largest counts, largest first. Equal counts keep
// first-seen order.
func (c *Counter) MostCommon(n int) []Count {
	if n <= 0 || len(c.counts) == 0 {
		return nil
	}
	items := make(TopKSlice, len(c.counts))
	for i, cnt := range c.counts {
		items[i] = rankedCount{Count: cnt, order: i}
	}
	if len(items) > n {
		// k is in the range [0, data.Len()), never return error
		_ = quickselect.QuickSelect(items, n)
		items = items[:n]
	}
	sort.Sort(items)

	res := make([]Count, 0, len(items))
	for _, item := range items {
		res = append(res, item.Count)
	}
	return res
}

// SumCounts adds up the counts.
func SumCounts(counts []Count) (total int64) {
	for _, c := range counts {
		total += c.Count
	}
	return
}

type rankedCount struct {
	Count
	order int
}

type TopKSlice []rankedCount

var _ sort.Interface = TopKSlice{}

func (s TopKSlice) Len() int {
	return len(s)
}

func (s TopKSlice) Less(i, j int) bool {
	si := s[i]
	sj := s[j]

	if si.Count.Count != sj.Count.Count {
		return si.Count.Count > sj.Count.Count
	}

	return si.order < sj.order
}

func (s TopKSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
