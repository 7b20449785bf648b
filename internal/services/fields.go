package services

import (
	"time"

	"github.com/moeedrafique/cea/internal/models"
)

const dateLayout = "2006-01-02"

// Field names as they appear in change sets and in the `new_<field>`
// form payload keys.
const (
	FieldFullName         = "full_name"
	FieldFatherName       = "father_name"
	FieldCNIC             = "cnic"
	FieldDOB              = "dob"
	FieldGender           = "gender"
	FieldNICType          = "nic_type"
	FieldCountryOfStay    = "country_of_stay"
	FieldPresentAddress   = "present_address"
	FieldPermanentAddress = "permanent_address"
	FieldDualCitizen      = "dual_citizen"
	FieldOtherCitizenship = "other_citizenship"
	FieldPriMob           = "pri_mob"
	FieldSecMob           = "sec_mob"
	FieldDesignation      = "designation"
	FieldBusinessName     = "business_name"
	FieldBusinessAddress  = "business_address"
	FieldDistrict         = "district"
	FieldTehsil           = "tehsil"
	FieldPriLand          = "pri_land"
	FieldSecLand          = "sec_land"
	FieldEmployeeNumber   = "employee_number"
)

// memberField pairs a change-set field name with typed accessors on the
// member record and the matching staged slot on a change request. The
// table is the closed set of editable scalar fields; district and
// tehsil are foreign keys and handled separately.
type memberField struct {
	name  string
	get   func(*models.Member) string
	set   func(*models.Member, string) error
	stage func(*models.ChangeRequest, string)
}

var memberFields = []memberField{
	{
		name:  FieldFullName,
		get:   func(m *models.Member) string { return m.FullName },
		set:   func(m *models.Member, v string) error { m.FullName = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewFullName = v },
	},
	{
		name:  FieldFatherName,
		get:   func(m *models.Member) string { return m.FatherName },
		set:   func(m *models.Member, v string) error { m.FatherName = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewFatherName = v },
	},
	{
		name:  FieldCNIC,
		get:   func(m *models.Member) string { return m.CNIC },
		set:   func(m *models.Member, v string) error { m.CNIC = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewCNIC = v },
	},
	{
		name: FieldDOB,
		get:  func(m *models.Member) string { return m.DOB.Format(dateLayout) },
		set: func(m *models.Member, v string) error {
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				return NewValidationError(FieldDOB, "must be a date in YYYY-MM-DD format")
			}
			m.DOB = d
			return nil
		},
		stage: func(cr *models.ChangeRequest, v string) {
			if d, err := time.Parse(dateLayout, v); err == nil {
				cr.NewDOB = &d
			}
		},
	},
	{
		name:  FieldGender,
		get:   func(m *models.Member) string { return string(m.Gender) },
		set:   func(m *models.Member, v string) error { m.Gender = models.Gender(v); return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewGender = v },
	},
	{
		name:  FieldNICType,
		get:   func(m *models.Member) string { return string(m.NICType) },
		set:   func(m *models.Member, v string) error { m.NICType = models.NICType(v); return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewNICType = v },
	},
	{
		name:  FieldCountryOfStay,
		get:   func(m *models.Member) string { return m.CountryOfStay },
		set:   func(m *models.Member, v string) error { m.CountryOfStay = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewCountryOfStay = v },
	},
	{
		name:  FieldPresentAddress,
		get:   func(m *models.Member) string { return m.PresentAddress },
		set:   func(m *models.Member, v string) error { m.PresentAddress = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewPresentAddress = v },
	},
	{
		name:  FieldPermanentAddress,
		get:   func(m *models.Member) string { return m.PermanentAddress },
		set:   func(m *models.Member, v string) error { m.PermanentAddress = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewPermanentAddress = v },
	},
	{
		name:  FieldDualCitizen,
		get:   func(m *models.Member) string { return m.DualCitizen },
		set:   func(m *models.Member, v string) error { m.DualCitizen = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewDualCitizen = v },
	},
	{
		name:  FieldOtherCitizenship,
		get:   func(m *models.Member) string { return m.OtherCitizenship },
		set:   func(m *models.Member, v string) error { m.OtherCitizenship = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewOtherCitizenship = v },
	},
	{
		name:  FieldPriMob,
		get:   func(m *models.Member) string { return m.PriMob },
		set:   func(m *models.Member, v string) error { m.PriMob = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewPriMob = v },
	},
	{
		name:  FieldSecMob,
		get:   func(m *models.Member) string { return m.SecMob },
		set:   func(m *models.Member, v string) error { m.SecMob = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewSecMob = v },
	},
	{
		name:  FieldDesignation,
		get:   func(m *models.Member) string { return m.Designation },
		set:   func(m *models.Member, v string) error { m.Designation = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewDesignation = v },
	},
	{
		name:  FieldBusinessName,
		get:   func(m *models.Member) string { return m.BusinessName },
		set:   func(m *models.Member, v string) error { m.BusinessName = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewBusinessName = v },
	},
	{
		name:  FieldBusinessAddress,
		get:   func(m *models.Member) string { return m.BusinessAddress },
		set:   func(m *models.Member, v string) error { m.BusinessAddress = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewBusinessAddress = v },
	},
	{
		name:  FieldPriLand,
		get:   func(m *models.Member) string { return m.PriLand },
		set:   func(m *models.Member, v string) error { m.PriLand = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewPriLand = v },
	},
	{
		name:  FieldSecLand,
		get:   func(m *models.Member) string { return m.SecLand },
		set:   func(m *models.Member, v string) error { m.SecLand = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewSecLand = v },
	},
	{
		name:  FieldEmployeeNumber,
		get:   func(m *models.Member) string { return m.EmployeeNumber },
		set:   func(m *models.Member, v string) error { m.EmployeeNumber = v; return nil },
		stage: func(cr *models.ChangeRequest, v string) { cr.NewEmployeeNumber = v },
	},
}

// EditableFieldNames lists every field a renewal form may propose a
// new value for, in submission order
func EditableFieldNames() []string {
	names := make([]string, 0, len(memberFields)+2)
	for _, f := range memberFields {
		names = append(names, f.name)
	}
	return append(names, FieldDistrict, FieldTehsil)
}

func memberFieldByName(name string) (memberField, bool) {
	for _, f := range memberFields {
		if f.name == name {
			return f, true
		}
	}
	return memberField{}, false
}
