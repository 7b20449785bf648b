package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moeedrafique/cea/internal/models"
	"github.com/moeedrafique/cea/internal/services"
)

type MemberHandler struct {
	members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// Signup registers a new member together with their new-registration fee
func (h *MemberHandler) Signup(c echo.Context) error {
	member, err := parseMemberForm(c)
	if err != nil {
		return err
	}

	amountPaid := 0.0
	if amountStr := strings.TrimSpace(c.FormValue("amount_paid")); amountStr != "" {
		amountPaid, err = strconv.ParseFloat(amountStr, 64)
		if err != nil || amountPaid < 0 {
			return services.NewValidationError("amount_paid", "must be a non-negative amount")
		}
	}
	method := models.SubmissionMethod(c.FormValue("submission_method"))
	if method != models.SubmissionMethodCash && method != models.SubmissionMethodBankTransfer {
		return services.NewValidationError("submission_method", "must be cash or bank_transfer")
	}

	sub := services.RegistrationSubmission{
		Member:           member,
		AmountPaid:       amountPaid,
		SubmissionMethod: method,
	}
	if paymentStr := c.FormValue("payment_id"); paymentStr != "" {
		paymentID, err := strconv.ParseUint(paymentStr, 10, 32)
		if err != nil {
			return services.NewValidationError("payment_id", "must be a numeric identifier")
		}
		id := uint(paymentID)
		sub.PaymentID = &id
	}

	applicationID, err := h.members.SubmitRegistration(c.Request().Context(), sub)
	if err != nil {
		return err
	}

	return success(c, echo.Map{
		"application_id": applicationID,
		"message":        "Your registration was successful!",
	})
}

// requiredMemberFields are the signup form keys that must be present
var requiredMemberFields = []string{
	"full_name", "father_name", "cnic", "dob", "gender", "nic_type",
	"present_address", "permanent_address", "pri_mob",
	"business_name", "business_address", "employee_number",
}

func parseMemberForm(c echo.Context) (models.Member, error) {
	var member models.Member

	missing := map[string]string{}
	for _, field := range requiredMemberFields {
		if strings.TrimSpace(c.FormValue(field)) == "" {
			missing[field] = "this field is required"
		}
	}
	if len(missing) > 0 {
		return member, &services.ValidationError{Fields: missing}
	}

	dob, err := time.Parse("2006-01-02", c.FormValue("dob"))
	if err != nil {
		return member, services.NewValidationError("dob", "must be a date in YYYY-MM-DD format")
	}

	member = models.Member{
		FullName:         c.FormValue("full_name"),
		FatherName:       c.FormValue("father_name"),
		CNIC:             c.FormValue("cnic"),
		DOB:              dob,
		Gender:           models.Gender(c.FormValue("gender")),
		NICType:          models.NICType(c.FormValue("nic_type")),
		CountryOfStay:    c.FormValue("country_of_stay"),
		PresentAddress:   c.FormValue("present_address"),
		PermanentAddress: c.FormValue("permanent_address"),
		DualCitizen:      c.FormValue("dual_citizen"),
		OtherCitizenship: c.FormValue("other_citizenship"),
		PriMob:           c.FormValue("pri_mob"),
		SecMob:           c.FormValue("sec_mob"),
		Designation:      c.FormValue("designation"),
		BusinessName:     c.FormValue("business_name"),
		BusinessAddress:  c.FormValue("business_address"),
		PriLand:          c.FormValue("pri_land"),
		SecLand:          c.FormValue("sec_land"),
		EmployeeNumber:   c.FormValue("employee_number"),
	}
	if member.CountryOfStay == "" {
		member.CountryOfStay = "PK"
	}
	if member.DualCitizen == "" {
		member.DualCitizen = "no"
	}
	if member.Designation == "" {
		member.Designation = "Member"
	}

	for field, key := range map[string]string{"district": "district", "tehsil": "tehsil"} {
		value := strings.TrimSpace(c.FormValue(key))
		if value == "" {
			continue
		}
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return member, services.NewValidationError(field, "must be a numeric identifier")
		}
		ref := uint(id)
		if field == "district" {
			member.DistrictID = &ref
		} else {
			member.TehsilID = &ref
		}
	}

	return member, nil
}

// ListMembers returns all members for the admin listing
func (h *MemberHandler) ListMembers(c echo.Context) error {
	members, err := h.members.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"members": members})
}

// ViewMember returns one member record
func (h *MemberHandler) ViewMember(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	member, err := h.members.GetMember(c.Request().Context(), memberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"member": member})
}

// SetApproval records the admin's member and payment verdicts from the
// member detail screen
func (h *MemberHandler) SetApproval(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	memberApproved := c.FormValue("approve_member") == "on"
	paymentApproved := c.FormValue("approve_payment") == "on"

	member, err := h.members.SetApproval(c.Request().Context(), memberID, memberApproved, paymentApproved)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"message": "Member updated successfully!",
		"member":  member,
	})
}

// ToggleStatus flips a member between active and suspended
func (h *MemberHandler) ToggleStatus(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	member, err := h.members.ToggleStatus(c.Request().Context(), memberID)
	if err != nil {
		return err
	}

	message := "Member suspended successfully."
	payload := echo.Map{"message": message, "member_status": member.Status}
	if member.Status == models.MemberStatusActive {
		payload["message"] = "Member activated successfully and membership updated."
		if member.MemberTill != nil {
			payload["member_till"] = member.MemberTill.Format("2006-01-02")
		}
	}
	return success(c, payload)
}

// DeleteMember removes a member
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.members.DeleteMember(c.Request().Context(), memberID); err != nil {
		return err
	}
	return success(c, echo.Map{"message": "Member has been deleted successfully."})
}

// RegistrationReceipt returns the receipt payload for an approved
// member's registration fee
func (h *MemberHandler) RegistrationReceipt(c echo.Context) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	receipt, err := h.members.RegistrationReceipt(c.Request().Context(), memberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, receipt)
}
