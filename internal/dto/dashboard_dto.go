package dto

// --- Dashboard Reads ---

type SummaryRowResponse struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type ChannelRevenueResponse struct {
	Channel string  `json:"channel"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type DashboardResponse struct {
	Summary  []SummaryRowResponse     `json:"summary"`
	Channels []ChannelRevenueResponse `json:"channels"`
	Syncing  bool                     `json:"syncing"`
	LastError string                  `json:"last_error,omitempty"`
}
