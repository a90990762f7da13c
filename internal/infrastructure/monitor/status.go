package monitor

import "time"

type Status struct {
	PostgreSQL  bool      `json:"postgresql"`
	Redis       bool      `json:"redis"`
	Outbox      bool      `json:"outbox"`
	OutboxDepth int       `json:"outbox_depth"`
	LastCheck   time.Time `json:"last_check"`
}
