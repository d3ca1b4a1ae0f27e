package fiber

// RecordVisitRequest represents a page view reported by a tracker
// @Description Visit recording DTO
type RecordVisitRequest struct {
	IPAddress string `json:"ip_address" example:"203.0.113.7"`
	Path      string `json:"path" example:"/pricing"`
	Referer   string `json:"referer"`
	UserAgent string `json:"user_agent"`
	Browser   string `json:"browser" example:"Chrome"`
	OS        string `json:"os" example:"Linux"`
	City      string `json:"city" example:"Berlin"`
	Country   string `json:"country" example:"DE"`
	Timestamp int64  `json:"timestamp"`
}

type RecordVisitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type BulkRecordVisitsRequest struct {
	Visits []RecordVisitRequest `json:"visits"`
}

type BulkRecordVisitsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Banned     int `json:"banned"`
}

type BanVisitorRequest struct {
	Reason string `json:"reason" example:"scraping"`
}

type VisitorResponse struct {
	ID           string `json:"id"`
	IPAddress    string `json:"ip_address"`
	Browser      string `json:"browser"`
	OS           string `json:"os"`
	City         string `json:"city"`
	Country      string `json:"country"`
	FirstVisitAt int64  `json:"first_visit_at"`
	LastVisitAt  int64  `json:"last_visit_at"`
	VisitCount   int64  `json:"visit_count"`
	Banned       bool   `json:"banned"`
	BanReason    string `json:"ban_reason,omitempty"`
	BannedAt     *int64 `json:"banned_at,omitempty"`
}

type ListVisitorsResponse struct {
	Visitors []VisitorResponse `json:"visitors"`
	Count    int               `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_visit"`
	Message string `json:"message" example:"Visit payload is invalid"`
}
