// Package records holds the tenant-owned ledger types and their
// service. Every type here carries the tenant capability expected by
// the scope gateway, so a record can only be read or written inside
// the tenant resolved for the request.
package records

import "time"

// Transaction is one money movement in a tenant's ledger. Amounts are
// integer minor units (cents) to avoid float drift.
type Transaction struct {
	ID         string    `json:"id"`
	Tenant     string    `json:"-"`
	Amount     int64     `json:"amount_minor"`
	Currency   string    `json:"currency"`
	Memo       string    `json:"memo,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TenantKey reports the owning tenant key, or "" before binding.
func (t *Transaction) TenantKey() string { return t.Tenant }

// BindTenant binds the transaction to its owning tenant.
func (t *Transaction) BindTenant(key string) { t.Tenant = key }

// Budget caps spending for one category over a recurring period.
type Budget struct {
	ID         string    `json:"id"`
	Tenant     string    `json:"-"`
	Category   string    `json:"category"`
	LimitMinor int64     `json:"limit_minor"`
	Period     string    `json:"period"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TenantKey reports the owning tenant key, or "" before binding.
func (b *Budget) TenantKey() string { return b.Tenant }

// BindTenant binds the budget to its owning tenant.
func (b *Budget) BindTenant(key string) { b.Tenant = key }

// Budget periods accepted by the service.
const (
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

// ValidPeriod reports whether p is one of the accepted budget periods.
// Matching is exact; "Monthly" is not a period.
func ValidPeriod(p string) bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}
