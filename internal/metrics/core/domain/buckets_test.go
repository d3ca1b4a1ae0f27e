package domain_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"visitor-metrics-service/internal/metrics/core/domain"
)

func TestBucketedCounts_MarshalKeepsBucketOrder(t *testing.T) {
	now := time.Date(2025, 3, 7, 1, 0, 0, 0, time.UTC)
	res, err := domain.Aggregate(eventsAt(now), domain.PeriodLast24Hours, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// axis starts at 02 (yesterday) and wraps to 01 (now)
	prefix := `{"02":0,"03":0,`
	if string(raw[:len(prefix)]) != prefix {
		t.Fatalf("unexpected JSON prefix: %s", raw)
	}
	suffix := `"00":0,"01":1}`
	if string(raw[len(raw)-len(suffix):]) != suffix {
		t.Fatalf("unexpected JSON suffix: %s", raw)
	}
}

func TestBucketedCounts_UnmarshalRestoresOrder(t *testing.T) {
	var b domain.BucketedCounts
	if err := json.Unmarshal([]byte(`{"03/06":4,"03/02":1}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(b.Keys(), []string{"03/06", "03/02"}) {
		t.Fatalf("unexpected keys: %v", b.Keys())
	}
	if b.Total() != 5 {
		t.Fatalf("expected total 5, got %d", b.Total())
	}
}

func TestBucketedCounts_UnmarshalRejectsBadInput(t *testing.T) {
	for _, raw := range []string{`[]`, `{"a":"x"}`, `{"a":-1}`} {
		var b domain.BucketedCounts
		if err := json.Unmarshal([]byte(raw), &b); err == nil {
			t.Fatalf("%s: expected error, got nil", raw)
		}
	}
}

func TestBucketedCounts_EmptyMarshalsToObject(t *testing.T) {
	raw, err := json.Marshal(domain.BucketedCounts{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("expected {}, got %s", raw)
	}
}
