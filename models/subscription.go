package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subscription struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	ValidityHours float64   `gorm:"not null" json:"validityHours"` // e.g. 10 hours, 20 hours
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Status        string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	StartDate     time.Time `json:"startDate"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
