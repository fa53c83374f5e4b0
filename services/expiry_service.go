// services/expiry_service.go
package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"spabliss-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const defaultLowHoursThreshold = 2

// ExpiryService runs the daily balance sweep: customers whose hours ran out
// are marked Expired, and customers close to running out get a renewal nudge
// over SMS/WhatsApp.
type ExpiryService struct {
	db      *gorm.DB
	client  *twilio.RestClient
	enabled bool
}

func NewExpiryService(db *gorm.DB) *ExpiryService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ExpiryService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		enabled: accountSid != "" && authToken != "",
	}
}

func (s *ExpiryService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.RunDailySweep()
	})

	c.Start()
	logrus.Info("Balance sweep scheduler started")
}

func (s *ExpiryService) RunDailySweep() {
	logrus.Info("Starting daily balance sweep...")

	s.expireDrainedCustomers()
	s.remindLowBalances()

	logrus.Info("Daily balance sweep completed")
}

func (s *ExpiryService) expireDrainedCustomers() {
	var drained []models.Customer
	if err := s.db.Where("status = ? AND remaining_hours <= 0", models.CustomerActive).
		Find(&drained).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch drained customers")
		return
	}

	for _, customer := range drained {
		if err := s.db.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Update("status", models.CustomerExpired).Error; err != nil {
			logrus.WithError(err).WithField("customer", customer.ID).Error("Failed to expire customer")
			continue
		}
		message := fmt.Sprintf("Hi %s, your spa subscription hours are used up. Renew your plan to keep booking sessions!", customer.Name)
		s.notify(customer, "expired", message)
	}
}

func (s *ExpiryService) remindLowBalances() {
	threshold := float64(defaultLowHoursThreshold)
	if env := os.Getenv("LOW_HOURS_THRESHOLD"); env != "" {
		if v, err := strconv.ParseFloat(env, 64); err == nil {
			threshold = v
		}
	}

	var low []models.Customer
	if err := s.db.Where("status = ? AND remaining_hours > 0 AND remaining_hours <= ?",
		models.CustomerActive, threshold).Find(&low).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch low-balance customers")
		return
	}

	for _, customer := range low {
		message := fmt.Sprintf("Hi %s, only %.1f hours are left on your spa plan. Renew soon to avoid interruptions!", customer.Name, customer.RemainingHours)
		s.notify(customer, "low_balance", message)
	}
}

func (s *ExpiryService) notify(customer models.Customer, kind, message string) {
	// One nudge per week per customer and kind is plenty.
	var recent int64
	s.db.Model(&models.ReminderLog{}).
		Where("customer_id = ? AND kind = ? AND sent_at > ?", customer.ID, kind, time.Now().AddDate(0, 0, -7)).
		Count(&recent)
	if recent > 0 {
		return
	}

	if !s.enabled {
		logrus.WithFields(logrus.Fields{
			"customer": customer.ID,
			"kind":     kind,
		}).Info("Twilio not configured, skipping reminder")
		return
	}

	// WhatsApp for E.164 numbers, plain SMS otherwise
	channel := "sms"
	to := customer.Phone
	if strings.HasPrefix(customer.Phone, "+") {
		to = "whatsapp:" + customer.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		logrus.WithError(err).WithField("phone", customer.Phone).Error("Failed to send reminder")
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		logrus.WithFields(logrus.Fields{"phone": customer.Phone, "sid": *resp.Sid}).Info("Reminder sent")
	}

	log := models.ReminderLog{
		CustomerID:   customer.ID,
		Kind:         kind,
		Message:      message,
		Channel:      channel,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&log).Error; err != nil {
		logrus.WithError(err).WithField("customer", customer.ID).Error("Failed to log reminder")
	}
}
