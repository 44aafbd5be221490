package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing interval constants
const (
	PlanIntervalMonthly = "MONTHLY"
	PlanIntervalYearly  = "YEARLY"
)

// SubscriptionStatus enum constants
const (
	SubscriptionTrialing = "TRIALING"
	SubscriptionActive   = "ACTIVE"
	SubscriptionPastDue  = "PAST_DUE"
	SubscriptionCanceled = "CANCELED"
)

// Plan is a billable tier. Prices are charged by the external gateway;
// this row only feeds the pricing page and the checkout request.
type Plan struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // starter, pro...
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	Interval    string          `gorm:"type:varchar(20);not null;default:'MONTHLY'" json:"interval"`
	MaxProjects int             `gorm:"not null;default:0" json:"max_projects"` // 0 = unlimited
	CreatedAt   time.Time       `json:"created_at"`
}

// Subscription is the single billing record for an account-owner user.
// Activation happens via the gateway webhook, never directly.
type Subscription struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	PlanID           uuid.UUID  `gorm:"type:uuid;not null" json:"plan_id"`
	Plan             Plan       `gorm:"foreignKey:PlanID" json:"plan"`
	Status           string     `gorm:"type:varchar(20);not null;default:'TRIALING';index" json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
	ExternalRef      string     `gorm:"type:varchar(255)" json:"-"` // gateway's subscription id
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
