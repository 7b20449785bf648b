package models

import (
	"time"

	"gorm.io/gorm"
)

// Gender of a member
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// NICType represents the kind of national identity document
type NICType string

const (
	NICTypeCNIC  NICType = "cnic"
	NICTypeNICOP NICType = "nicop"
)

// MemberStatus represents the lifecycle status of a member
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusPending   MemberStatus = "pending"
	MemberStatusSuspended MemberStatus = "suspended"
)

// Member is the identity record of an association member
type Member struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ApplicationID *string `gorm:"type:varchar(25);uniqueIndex" json:"application_id"`

	FullName   string    `gorm:"type:varchar(255)" json:"full_name"`
	FatherName string    `gorm:"type:varchar(255)" json:"father_name"`
	CNIC       string    `gorm:"type:varchar(13);uniqueIndex" json:"cnic"`
	DOB        time.Time `json:"dob"`
	Gender     Gender    `gorm:"type:varchar(10)" json:"gender"`
	NICType    NICType   `gorm:"type:varchar(50)" json:"nic_type"`

	// Country fields hold ISO 3166-1 alpha-2 codes
	CountryOfStay    string `gorm:"type:varchar(2);default:'PK'" json:"country_of_stay"`
	PresentAddress   string `gorm:"type:text" json:"present_address"`
	PermanentAddress string `gorm:"type:text" json:"permanent_address"`
	DualCitizen      string `gorm:"type:varchar(3);default:'no'" json:"dual_citizen"`
	OtherCitizenship string `gorm:"type:varchar(2)" json:"other_citizenship"`

	PriMob  string `gorm:"type:varchar(15)" json:"pri_mob"`
	SecMob  string `gorm:"type:varchar(15)" json:"sec_mob"`
	Picture string `gorm:"type:varchar(255)" json:"picture"`

	// Business information
	Designation     string `gorm:"type:varchar(100);default:'Member'" json:"designation"`
	BusinessName    string `gorm:"type:varchar(255)" json:"business_name"`
	BusinessAddress string `gorm:"type:text" json:"business_address"`

	DistrictID *uint     `json:"district_id"`
	District   *District `gorm:"foreignKey:DistrictID;constraint:OnDelete:SET NULL" json:"district,omitempty"`
	TehsilID   *uint     `json:"tehsil_id"`
	Tehsil     *Tehsil   `gorm:"foreignKey:TehsilID;constraint:OnDelete:SET NULL" json:"tehsil,omitempty"`

	PriLand        string `gorm:"type:varchar(15)" json:"pri_land"`
	SecLand        string `gorm:"type:varchar(15)" json:"sec_land"`
	EmployeeNumber string `gorm:"type:varchar(20)" json:"employee_number"`

	IsApproved bool         `gorm:"default:false" json:"is_approved"`
	Status     MemberStatus `gorm:"type:varchar(10);default:'pending'" json:"status"`

	// JoinedAt is stamped exactly once, on first approval
	JoinedAt   *time.Time `json:"joined_at"`
	MemberTill *time.Time `json:"member_till"`

	// Relationships
	Fees           []Fee           `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"fees,omitempty"`
	ChangeRequests []ChangeRequest `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"change_requests,omitempty"`
}

// BeforeSave stamps JoinedAt the first time the member is approved
func (m *Member) BeforeSave(tx *gorm.DB) error {
	if m.IsApproved && m.JoinedAt == nil {
		now := time.Now()
		m.JoinedAt = &now
	}
	return nil
}

// CNICLastDigits returns the last four digits of the CNIC
func (m Member) CNICLastDigits() string {
	if len(m.CNIC) >= 4 {
		return m.CNIC[len(m.CNIC)-4:]
	}
	return ""
}
