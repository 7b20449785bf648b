package models

import (
	"time"

	"gorm.io/gorm"
)

// FieldChange records one proposed edit of a member field
type FieldChange struct {
	Previous string `json:"previous"`
	New      string `json:"new"`
}

// ChangeSet is a sparse mapping from field name to its proposed edit.
// Only fields whose submitted value differs from the member's current
// value are present.
type ChangeSet map[string]FieldChange

// ChangeRequest is a proposed edit bundle tied to one member and the
// renewal fee it was submitted with. Requests are never deleted; they
// double as the audit trail of the review.
type ChangeRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ApplicationID *string `gorm:"type:varchar(25);uniqueIndex" json:"application_id"`

	MemberID uint `gorm:"index" json:"member_id"`
	FeeID    uint `gorm:"index" json:"fee_id"`

	// ProposedChanges is written at submission time. Admin corrections
	// during review may adjust the staged New values, but the map is
	// never replaced after the request has been applied.
	ProposedChanges ChangeSet `gorm:"serializer:json" json:"proposed_changes"`

	// AppliedPreviousValues is written once, when the approved changes
	// are copied onto the live member record. It holds the live values
	// each field had immediately before the overwrite.
	AppliedPreviousValues map[string]string `gorm:"serializer:json" json:"applied_previous_values"`

	// Staged values for every editable member field, independent of
	// ProposedChanges. Blank means the field was not submitted.
	NewFullName         string     `gorm:"type:varchar(255)" json:"new_full_name"`
	NewFatherName       string     `gorm:"type:varchar(255)" json:"new_father_name"`
	NewCNIC             string     `gorm:"type:varchar(13)" json:"new_cnic"`
	NewDOB              *time.Time `json:"new_dob"`
	NewGender           string     `gorm:"type:varchar(10)" json:"new_gender"`
	NewNICType          string     `gorm:"type:varchar(50)" json:"new_nic_type"`
	NewCountryOfStay    string     `gorm:"type:varchar(2)" json:"new_country_of_stay"`
	NewPresentAddress   string     `gorm:"type:text" json:"new_present_address"`
	NewPermanentAddress string     `gorm:"type:text" json:"new_permanent_address"`
	NewDualCitizen      string     `gorm:"type:varchar(3)" json:"new_dual_citizen"`
	NewOtherCitizenship string     `gorm:"type:varchar(2)" json:"new_other_citizenship"`
	NewPriMob           string     `gorm:"type:varchar(15)" json:"new_pri_mob"`
	NewSecMob           string     `gorm:"type:varchar(15)" json:"new_sec_mob"`
	NewDesignation      string     `gorm:"type:varchar(100)" json:"new_designation"`
	NewBusinessName     string     `gorm:"type:varchar(255)" json:"new_business_name"`
	NewBusinessAddress  string     `gorm:"type:text" json:"new_business_address"`
	NewPriLand          string     `gorm:"type:varchar(15)" json:"new_pri_land"`
	NewSecLand          string     `gorm:"type:varchar(15)" json:"new_sec_land"`
	NewEmployeeNumber   string     `gorm:"type:varchar(20)" json:"new_employee_number"`

	NewDistrictID *uint     `json:"new_district_id"`
	NewDistrict   *District `gorm:"foreignKey:NewDistrictID;constraint:OnDelete:SET NULL" json:"new_district,omitempty"`
	NewTehsilID   *uint     `json:"new_tehsil_id"`
	NewTehsil     *Tehsil   `gorm:"foreignKey:NewTehsilID;constraint:OnDelete:SET NULL" json:"new_tehsil,omitempty"`

	// Review state. IsApproved and IsRejected are mutually exclusive.
	IsApproved      bool       `gorm:"default:false" json:"is_approved"`
	IsRejected      bool       `gorm:"default:false" json:"is_rejected"`
	SubmissionDate  time.Time  `json:"submission_date"`
	AdminReviewedAt *time.Time `json:"admin_reviewed_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	// Relationships
	Member Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Fee    Fee    `gorm:"foreignKey:FeeID" json:"fee,omitempty"`
}
