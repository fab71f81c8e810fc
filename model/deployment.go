package model

// Deployment state as reported by the (mocked) deployment manager
const (
	DeployRunning = "running"
	DeployStopped = "stopped"
	DeployFailed  = "failed"
)

type Deployment struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	UserID       string  `json:"-"`
	ModelName    string  `gorm:"not null" json:"model_name"`
	Status       string  `json:"status"`
	Region       string  `json:"region"`
	InstanceType string  `json:"instance_type"`
	Replicas     int     `json:"replicas"`
	AutoScale    bool    `json:"auto_scale"`
	URL          string  `json:"url"`
	Requests     int64   `json:"requests"`
	LatencyMs    float64 `json:"latency_ms"`
	Uptime       float64 `json:"uptime"`
	CreatedAt    int64   `json:"created_at"`
}
