package handlers

import (
	"errors"
	"net/http"

	bookingRepo "voyago/database/repository/booking"
	"voyago/models"
	"voyago/services/booking"

	"github.com/gin-gonic/gin"
)

// Wired from main.
var (
	IntentStore   booking.IntentStore
	Orchestrator  booking.Orchestrator
	BookingRepo   bookingRepo.BookingRepository
	FailedListCap int64 = 50
)

// CreateBookingIntent stores what the customer is about to buy and returns
// the order number the payment flow will be keyed on.
func CreateBookingIntent(c *gin.Context) {
	var input struct {
		Currency      string                  `json:"currency" binding:"required"`
		Offers        []models.CanonicalOffer `json:"offers" binding:"required"`
		Travelers     []models.Traveler       `json:"travelers" binding:"required"`
		PaymentMethod string                  `json:"payment_method" binding:"required"`
		Email         string                  `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if len(input.Offers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one offer is required"})
		return
	}

	var total float64
	for _, offer := range input.Offers {
		total += offer.Pricing.Total
	}

	intent := &models.BookingIntent{
		Currency:      input.Currency,
		Total:         total,
		Offers:        input.Offers,
		Travelers:     input.Travelers,
		PaymentMethod: input.PaymentMethod,
		Email:         input.Email,
	}
	if err := IntentStore.Create(c.Request.Context(), intent); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking intent", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_number": intent.OrderNumber,
		"total":        intent.Total,
		"currency":     intent.Currency,
	})
}

// ConfirmPayment is the post-payment trigger. It is safe to call repeatedly
// for the same order number.
func ConfirmPayment(c *gin.Context) {
	var input struct {
		OrderNumber string `json:"order_number" binding:"required"`
		PaymentRef  string `json:"payment_ref"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	record, err := Orchestrator.ConfirmPayment(c.Request.Context(), input.OrderNumber, input.PaymentRef)
	if err != nil {
		status, body := confirmErrorResponse(input.OrderNumber, err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetBooking returns the persisted booking record for an order number.
func GetBooking(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	record, err := BookingRepo.GetByOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking", "details": err.Error()})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found", "order_number": orderNumber})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListFailedBookings serves the operations reconciliation view.
func ListFailedBookings(c *gin.Context) {
	records, err := BookingRepo.ListFailed(c.Request.Context(), FailedListCap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(records), "bookings": records})
}

func confirmErrorResponse(orderNumber string, err error) (int, gin.H) {
	if errors.Is(err, booking.ErrIntentNotFound) {
		return http.StatusNotFound, gin.H{
			"error":        "booking intent not found or expired",
			"order_number": orderNumber,
		}
	}
	if errors.Is(err, booking.ErrBookingInProgress) {
		return http.StatusConflict, gin.H{
			"error":        "booking is already being processed",
			"order_number": orderNumber,
		}
	}

	var notConfirmed *booking.PaymentNotConfirmed
	if errors.As(err, &notConfirmed) {
		return http.StatusPaymentRequired, gin.H{
			"error":        "payment not confirmed",
			"order_number": orderNumber,
			"status":       notConfirmed.Status,
		}
	}

	var partial *booking.PartialBookingFailure
	if errors.As(err, &partial) {
		return http.StatusBadGateway, gin.H{
			"error":          "unable to complete issuance, please contact support",
			"order_number":   orderNumber,
			"confirmed_refs": partial.ConfirmedRefs,
		}
	}

	var total *booking.TotalBookingFailure
	if errors.As(err, &total) {
		return http.StatusBadGateway, gin.H{
			"error":        "unable to complete issuance, please contact support",
			"order_number": orderNumber,
		}
	}

	return http.StatusInternalServerError, gin.H{
		"error":        "failed to process payment confirmation",
		"order_number": orderNumber,
	}
}
