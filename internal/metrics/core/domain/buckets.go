package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BucketedCounts maps bucket keys to visit counts and remembers the order in
// which keys were added. It serializes to a JSON object in that order.
type BucketedCounts struct {
	keys   []string
	counts map[string]int64
}

func newBucketedCounts(capacity int) BucketedCounts {
	return BucketedCounts{
		keys:   make([]string, 0, capacity),
		counts: make(map[string]int64, capacity),
	}
}

func (b *BucketedCounts) add(key string, n int64) {
	if b.counts == nil {
		b.counts = make(map[string]int64)
	}
	if _, ok := b.counts[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.counts[key] += n
}

func (b BucketedCounts) Len() int {
	return len(b.keys)
}

// Keys returns the bucket keys in result order.
func (b BucketedCounts) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

func (b BucketedCounts) Count(key string) (int64, bool) {
	n, ok := b.counts[key]
	return n, ok
}

func (b BucketedCounts) Total() int64 {
	var total int64
	for _, n := range b.counts {
		total += n
	}
	return total
}

// Each calls fn for every bucket in result order.
func (b BucketedCounts) Each(fn func(key string, count int64)) {
	for _, k := range b.keys {
		fn(k, b.counts[k])
	}
}

func (b BucketedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", b.counts[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *BucketedCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*b = BucketedCounts{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("bucketed counts: expected object, got %v", tok)
	}

	out := newBucketedCounts(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("bucketed counts: expected key, got %v", tok)
		}
		var n int64
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("bucketed counts: value for %q: %w", key, err)
		}
		if n < 0 {
			return fmt.Errorf("bucketed counts: negative count for %q", key)
		}
		out.add(key, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}
