package handlers

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moeedrafique/cea/internal/models"
	"github.com/moeedrafique/cea/internal/services"
)

type FeeHandler struct {
	fees *services.FeeService
}

func NewFeeHandler(fees *services.FeeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// SubmitFee accepts the generic fee form for one member: the fee type,
// amounts and payment details
func (h *FeeHandler) SubmitFee(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	sub := services.FeeSubmission{
		FeeType: models.FeeType(c.FormValue("fee_type")),
	}

	method := models.SubmissionMethod(c.FormValue("submission_method"))
	if method != models.SubmissionMethodCash && method != models.SubmissionMethodBankTransfer {
		return services.NewValidationError("submission_method", "must be cash or bank_transfer")
	}
	sub.SubmissionMethod = method

	for field, dest := range map[string]*float64{
		"amount_submitted": &sub.AmountSubmitted,
		"amount_remaining": &sub.AmountRemaining,
	} {
		value := strings.TrimSpace(c.FormValue(field))
		if value == "" {
			continue
		}
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil || amount < 0 {
			return services.NewValidationError(field, "must be a non-negative amount")
		}
		*dest = amount
	}

	if paymentStr := c.FormValue("payment_id"); paymentStr != "" {
		paymentID, err := strconv.ParseUint(paymentStr, 10, 32)
		if err != nil {
			return services.NewValidationError("payment_id", "must be a numeric identifier")
		}
		id := uint(paymentID)
		sub.PaymentID = &id
	}

	fee, err := h.fees.SubmitFee(c.Request().Context(), memberID, sub)
	if err != nil {
		return err
	}

	return success(c, echo.Map{
		"message": "Fees submitted successfully!",
		"fee":     fee,
	})
}
