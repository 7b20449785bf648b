package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moeedrafique/cea/internal/models"
	"github.com/moeedrafique/cea/internal/services"
)

type RenewalHandler struct {
	renewals *services.RenewalService
}

func NewRenewalHandler(renewals *services.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewals: renewals}
}

// SubmitRenewal accepts the renewal form for one member: the payment
// fields plus zero or more new_<field> overrides. On success it returns
// the application ID assigned to the change request.
func (h *RenewalHandler) SubmitRenewal(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	sub, err := parseRenewalForm(c)
	if err != nil {
		return err
	}

	applicationID, err := h.renewals.SubmitRenewal(c.Request().Context(), memberID, sub)
	if err != nil {
		return err
	}

	return success(c, echo.Map{
		"application_id": applicationID,
		"message":        "Application Submitted Successfully! Application ID: " + applicationID,
	})
}

func parseRenewalForm(c echo.Context) (services.RenewalSubmission, error) {
	var sub services.RenewalSubmission

	method := models.SubmissionMethod(c.FormValue("submission_method"))
	if method != models.SubmissionMethodCash && method != models.SubmissionMethodBankTransfer {
		return sub, services.NewValidationError("submission_method", "must be cash or bank_transfer")
	}
	sub.SubmissionMethod = method

	amountStr := strings.TrimSpace(c.FormValue("amount_paid"))
	if amountStr != "" {
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil || amount < 0 {
			return sub, services.NewValidationError("amount_paid", "must be a non-negative amount")
		}
		sub.AmountPaid = amount
	}

	if paymentStr := c.FormValue("payment_id"); paymentStr != "" {
		paymentID, err := strconv.ParseUint(paymentStr, 10, 32)
		if err != nil {
			return sub, services.NewValidationError("payment_id", "must be a numeric identifier")
		}
		id := uint(paymentID)
		sub.PaymentID = &id
	}

	sub.Fields = map[string]string{}
	for _, name := range services.EditableFieldNames() {
		if value := c.FormValue("new_" + name); value != "" {
			sub.Fields[name] = value
		}
	}

	return sub, nil
}

// RenewalReceipt returns the receipt payload for a member's renewal,
// available once both the change request and its fee are approved. PDF
// rendering happens downstream from this data.
func (h *RenewalHandler) RenewalReceipt(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	receipt, err := h.renewals.RenewalReceipt(c.Request().Context(), memberID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, receipt)
}
