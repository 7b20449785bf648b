package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moeedrafique/cea/internal/services"
)

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// PendingRequests lists change requests awaiting an admin verdict
func (h *ReviewHandler) PendingRequests(c echo.Context) error {
	requests, err := h.reviews.PendingRequests(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"pending_requests": requests})
}

// ViewRequest returns one change request with its member and fee for
// the review screen
func (h *ReviewHandler) ViewRequest(c echo.Context) error {
	requestID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	request, err := h.reviews.GetRequest(c.Request().Context(), requestID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"change_request": request,
		"member":         request.Member,
		"changes":        request.ProposedChanges,
		"fee":            request.Fee,
	})
}

// ReviewRequest commits one review round. The form carries action
// markers (approve_change_request, reject_change_request,
// approve_payment, reject_payment), an optional rejection_reason, and
// optional changes[<field>] overrides of staged values.
func (h *ReviewHandler) ReviewRequest(c echo.Context) error {
	requestID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := c.Request().ParseForm(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form payload")
	}
	form := c.Request().Form

	action := services.ReviewAction{
		ApproveChanges:  form.Has("approve_change_request"),
		RejectChanges:   form.Has("reject_change_request"),
		RejectionReason: form.Get("rejection_reason"),
		ApprovePayment:  form.Has("approve_payment"),
		RejectPayment:   form.Has("reject_payment"),
		FieldOverrides:  map[string]string{},
	}
	for key := range form {
		if strings.HasPrefix(key, "changes[") && strings.HasSuffix(key, "]") {
			field := key[len("changes[") : len(key)-1]
			action.FieldOverrides[field] = form.Get(key)
		}
	}

	result, err := h.reviews.Review(c.Request().Context(), requestID, action)
	if err != nil {
		return err
	}

	message := "Review saved."
	switch {
	case result.Request.IsRejected:
		message = "Change request rejected successfully."
	case result.Applied:
		message = "Changes have been applied successfully."
	case result.Terminal:
		message = "Payment rejected successfully."
	case result.Request.IsApproved && len(result.Request.ProposedChanges) == 0:
		message = "Change request automatically approved as there were no changes."
	}

	return success(c, echo.Map{
		"message":        message,
		"change_request": result.Request,
		"fee":            result.Fee,
		"applied":        result.Applied,
		"redirect":       result.Terminal || result.Applied,
	})
}
