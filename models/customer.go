package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CustomerActive  = "Active"
	CustomerExpired = "Expired"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name  string `gorm:"not null" json:"name"`
	Age   int    `gorm:"not null" json:"age"`
	Phone string `gorm:"not null;uniqueIndex" json:"phone"`

	// Weak reference: the plan may be deleted out from under the customer.
	SubscriptionID *uuid.UUID    `gorm:"type:uuid;index" json:"subscriptionId"`
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`

	RemainingHours float64 `gorm:"not null;default:0" json:"remainingHours"`
	Status         string  `gorm:"type:varchar(20);default:'Active'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`

	gorm.Model `json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
