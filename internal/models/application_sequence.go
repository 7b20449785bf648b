package models

import "time"

// ApplicationSequence reserves application ID numbers per fee type and
// year. Rows are incremented inside the submitting transaction so two
// concurrent submissions cannot observe the same number.
type ApplicationSequence struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FeeType    string `gorm:"type:varchar(50);uniqueIndex:idx_app_seq_type_year" json:"fee_type"`
	Year       int    `gorm:"uniqueIndex:idx_app_seq_type_year" json:"year"`
	LastNumber int    `json:"last_number"`
}
