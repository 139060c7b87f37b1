package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusGenerated InvoiceStatus = "GENERATED"
	InvoiceStatusFailed    InvoiceStatus = "FAILED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
)

// Invoice bills one user for one calendar-month period.
// Status transitions: PENDING -> GENERATED (payment link ready),
// PENDING/GENERATED -> FAILED (gateway error), FAILED -> GENERATED (later retry),
// GENERATED -> PAID (gateway webhook, handled by the payment webhook service).
type Invoice struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	TotalCpuSecs  float64       `json:"total_cpu_secs"`
	TotalMemBytes uint64        `json:"total_mem_bytes"`
	TotalNetBytes uint64        `json:"total_net_bytes"`
	Amount        float64       `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	PaymentLink   string        `json:"payment_link,omitempty"`
	Period        time.Time     `json:"period"` // first day of the billed month, UTC
	DueDate       time.Time     `json:"due_date"`
	CreatedTime   time.Time     `json:"created_at"`
	UpdatedTime   time.Time     `json:"updated_at"`
}

// Pricing holds the per-unit price constants applied to one aggregation window.
type Pricing struct {
	CpuSecond   float64
	MemoryByte  float64
	NetworkByte float64
}

// Cost prices one usage window. Inputs are already clamped deltas, never negative.
func (p Pricing) Cost(cpuSecs float64, memBytes uint64, netBytes uint64) float64 {
	return cpuSecs*p.CpuSecond + float64(memBytes)*p.MemoryByte + float64(netBytes)*p.NetworkByte
}

type UserSuspendedMessage struct {
	UserID      string    `json:"user_id"`
	InvoiceID   string    `json:"invoice_id"`
	SuspendedAt time.Time `json:"suspended_at"`
}
