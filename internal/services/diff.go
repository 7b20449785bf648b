package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// BuildChangeSet compares a member's current values against the
// submitted new values and returns the sparse set of genuine edits.
// Fields that are absent, empty, or equal to the current value are
// skipped. District and tehsil are submitted as identifiers; a value
// that resolves to no record is a hard failure, and the resolved
// records are returned so callers can stage the foreign keys.
//
// An empty change set means the submission proposes nothing new.
func BuildChangeSet(tx *gorm.DB, member *models.Member, submitted map[string]string) (models.ChangeSet, *models.District, *models.Tehsil, error) {
	changes := models.ChangeSet{}

	for _, f := range memberFields {
		raw, ok := submitted[f.name]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if f.name == FieldDOB {
			d, err := time.Parse(dateLayout, value)
			if err != nil {
				return nil, nil, nil, NewValidationError(FieldDOB, "must be a date in YYYY-MM-DD format")
			}
			value = d.Format(dateLayout)
		}
		current := f.get(member)
		if value == current {
			continue
		}
		changes[f.name] = models.FieldChange{Previous: current, New: value}
	}

	district, err := resolveGeoChange(tx, changes, FieldDistrict, submitted[FieldDistrict], member.DistrictID, districtName(member))
	if err != nil {
		return nil, nil, nil, err
	}
	tehsil, err := resolveTehsilChange(tx, changes, submitted[FieldTehsil], member.TehsilID, tehsilName(member))
	if err != nil {
		return nil, nil, nil, err
	}

	return changes, district, tehsil, nil
}

func resolveGeoChange(tx *gorm.DB, changes models.ChangeSet, field, raw string, currentID *uint, currentName string) (*models.District, error) {
	id, ok, err := parseGeoID(field, raw)
	if err != nil || !ok {
		return nil, err
	}
	if currentID != nil && *currentID == id {
		return nil, nil
	}
	var district models.District
	if err := tx.First(&district, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Entity: field, ID: id}
		}
		return nil, err
	}
	changes[field] = models.FieldChange{Previous: currentName, New: district.Name}
	return &district, nil
}

func resolveTehsilChange(tx *gorm.DB, changes models.ChangeSet, raw string, currentID *uint, currentName string) (*models.Tehsil, error) {
	id, ok, err := parseGeoID(FieldTehsil, raw)
	if err != nil || !ok {
		return nil, err
	}
	if currentID != nil && *currentID == id {
		return nil, nil
	}
	var tehsil models.Tehsil
	if err := tx.First(&tehsil, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Entity: FieldTehsil, ID: id}
		}
		return nil, err
	}
	changes[FieldTehsil] = models.FieldChange{Previous: currentName, New: tehsil.Name}
	return &tehsil, nil
}

func parseGeoID(field, raw string) (uint, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, NewValidationError(field, "must be a numeric identifier")
	}
	return uint(id), true, nil
}

func districtName(m *models.Member) string {
	if m.District != nil {
		return m.District.Name
	}
	return ""
}

func tehsilName(m *models.Member) string {
	if m.Tehsil != nil {
		return m.Tehsil.Name
	}
	return ""
}
