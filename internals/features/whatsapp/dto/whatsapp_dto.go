package dto

type MessageRequest struct {
	Message string `json:"message" form:"message" validate:"required,max=4096"`
}

type StatusResponse struct {
	Status      string `json:"status"`
	State       string `json:"state"`
	Enabled     bool   `json:"enabled"`
	QueueDepth  int    `json:"queue_depth"`
	CountryCode string `json:"country_code"`
}

type LinkResponse struct {
	Success bool   `json:"success"`
	Link    string `json:"link"`
}
