package domain

import "time"

type ContainerStatus string

const (
	ContainerStatusRUN     ContainerStatus = "RUN"
	ContainerStatusSTOPPED ContainerStatus = "STOPPED"
)

// Container is the deployment record this service reads to attribute a usage
// stream to its billable owner. Writes go through the containers service.
type Container struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	ServiceID   string          `json:"serviceId"`
	Status      ContainerStatus `json:"status"`
	CreatedTime time.Time       `json:"created_at"`
}
