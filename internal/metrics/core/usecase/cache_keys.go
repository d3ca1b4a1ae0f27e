package usecase

import (
	"fmt"

	"visitor-metrics-service/internal/metrics/core/domain"
)

func cacheKeyVisitorMetrics(p domain.TimePeriod) string {
	return fmt.Sprintf("metrics:visitors:%s", p)
}

func cacheKeyBreakdown(p domain.TimePeriod, d domain.Dimension, limit int) string {
	return fmt.Sprintf("metrics:breakdown:%s:%s:%d", p, d, limit)
}
