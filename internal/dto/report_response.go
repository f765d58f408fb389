package dto

// EndpointStatResponse is one row of the average report.
type EndpointStatResponse struct {
	Handler         string `json:"handler"`
	Total           int    `json:"total"`
	AvgResponseTime string `json:"avg_response_time"`
}

type ReportResponse struct {
	Kind   string                 `json:"kind"`
	Report string                 `json:"report"`
	Rows   []EndpointStatResponse `json:"rows"`
}

type IngestResponse struct {
	Accepted int `json:"accepted"`
}
