package monitor

import "time"

type Status struct {
	PostgreSQL    bool      `json:"postgresql"`
	Redis         bool      `json:"redis"`
	Outbox        bool      `json:"outbox"`
	OutboxPending int       `json:"outbox_pending"`
	LastCheck     time.Time `json:"last_check"`
}
