package fiber

import "visitor-metrics-service/internal/metrics/core/domain"

type VisitorMetricsResponse struct {
	Period string `json:"period" example:"last_24_hours"`
	From   *int64 `json:"from,omitempty" example:"1741271400"` // unix second, absent for all_time
	To     int64  `json:"to" example:"1741357800"`
	Total  int64  `json:"total" example:"42"`

	// Bucket key -> visit count, in chart order.
	Buckets domain.BucketedCounts `json:"buckets" swaggertype:"object,integer"`
}

type BreakdownGroupResponse struct {
	Key            string `json:"key"`
	Visits         int64  `json:"visits"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

type BreakdownResponse struct {
	Period    string                   `json:"period"`
	Dimension string                   `json:"dimension"`
	From      *int64                   `json:"from,omitempty"`
	To        int64                    `json:"to"`
	Groups    []BreakdownGroupResponse `json:"groups"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message,omitempty" example:"invalid period: \"bogus\""`
}
