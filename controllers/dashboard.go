package controllers

import (
	"net/http"
	"sort"
	"time"

	"spabliss-backend/config"
	"spabliss-backend/models"
	"spabliss-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MonthRevenue struct {
	Month        string  `json:"month"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type SubscriptionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MassageBookings struct {
	Name     string `json:"name"`
	Bookings int    `json:"bookings"`
}

type MonthlyStat struct {
	Month         int     `json:"month"`
	TotalRevenue  float64 `json:"totalRevenue"`
	CustomerCount int     `json:"customerCount"`
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// GetDashboard assembles the admin dashboard payload. Every figure is
// point-in-time and tolerant of empty collections.
func GetDashboard(c *gin.Context) {
	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	var activeSubscriptions int64
	if err := config.DB.Model(&models.Customer{}).
		Where("LOWER(status) = ?", "active").Count(&activeSubscriptions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	// Subscription-paid invoices double as the "service consumption" count.
	var totalMassagesBooked int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("mode_of_payment = ?", "Subscription").Count(&totalMassagesBooked).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	var totalRevenue float64
	if err := config.DB.Model(&models.Invoice{}).
		Where("status = ?", models.InvoicePaid).
		Select("COALESCE(SUM(paid_amount), 0)").Scan(&totalRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	revenueTrend, err := getRevenueTrend()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	topSubscriptions, err := getSubscriptionCounts(5)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	popularMassages, err := getPopularMassages(5)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	subscriptionDistribution, err := getSubscriptionCounts(0)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	monthlyStats, err := getMonthlyStats()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalCustomers":           totalCustomers,
		"activeSubscriptions":      activeSubscriptions,
		"totalMassagesBooked":      totalMassagesBooked,
		"totalRevenue":             totalRevenue,
		"revenueTrend":             revenueTrend,
		"topSubscriptions":         topSubscriptions,
		"popularMassages":          popularMassages,
		"subscriptionDistribution": subscriptionDistribution,
		"monthlyStats":             monthlyStats,
	})
}

// getRevenueTrend groups paid revenue by calendar month of the service date.
// The grouping happens in Go so the same code runs on postgres and sqlite.
func getRevenueTrend() ([]MonthRevenue, error) {
	var rows []struct {
		ServiceDate time.Time
		PaidAmount  float64
	}
	if err := config.DB.Model(&models.Invoice{}).
		Where("status = ?", models.InvoicePaid).
		Select("service_date, paid_amount").Scan(&rows).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[int]float64)
	for _, row := range rows {
		byMonth[int(row.ServiceDate.Month())] += row.PaidAmount
	}

	trend := make([]MonthRevenue, 0, len(byMonth))
	for month := 1; month <= 12; month++ {
		if revenue, ok := byMonth[month]; ok {
			trend = append(trend, MonthRevenue{Month: monthNames[month-1], TotalRevenue: revenue})
		}
	}
	return trend, nil
}

// getSubscriptionCounts returns plans ranked by customer count, joined with
// the plan name. limit 0 means unlimited (the full distribution).
func getSubscriptionCounts(limit int) ([]SubscriptionCount, error) {
	counts := make([]SubscriptionCount, 0)

	db := config.DB.Table("customers").
		Select("subscriptions.name AS name, COUNT(customers.id) AS count").
		Joins("JOIN subscriptions ON subscriptions.id = customers.subscription_id").
		Where("customers.subscription_id IS NOT NULL AND customers.deleted_at IS NULL").
		Group("subscriptions.id, subscriptions.name").
		Order("count DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	if err := db.Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// getPopularMassages ranks service types by bookings, excluding subscription
// purchase line items (any service type containing "plan").
func getPopularMassages(limit int) ([]MassageBookings, error) {
	bookings := make([]MassageBookings, 0)

	if err := config.DB.Table("invoices").
		Select("service_type AS name, COUNT(*) AS bookings").
		Where("LOWER(service_type) NOT LIKE ?", "%plan%").
		Group("service_type").
		Order("bookings DESC").
		Limit(limit).
		Scan(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// getMonthlyStats reports revenue and distinct customer count per calendar month.
func getMonthlyStats() ([]MonthlyStat, error) {
	var rows []struct {
		ServiceDate time.Time
		PaidAmount  float64
		CustomerID  uuid.UUID
	}
	if err := config.DB.Model(&models.Invoice{}).
		Select("service_date, paid_amount, customer_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	revenue := make(map[int]float64)
	customers := make(map[int]map[uuid.UUID]bool)
	for _, row := range rows {
		if row.ServiceDate.IsZero() {
			continue
		}
		month := int(row.ServiceDate.Month())
		revenue[month] += row.PaidAmount
		if customers[month] == nil {
			customers[month] = make(map[uuid.UUID]bool)
		}
		customers[month][row.CustomerID] = true
	}

	stats := make([]MonthlyStat, 0, len(revenue))
	for month := range revenue {
		stats = append(stats, MonthlyStat{
			Month:         month,
			TotalRevenue:  revenue[month],
			CustomerCount: len(customers[month]),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })
	return stats, nil
}
