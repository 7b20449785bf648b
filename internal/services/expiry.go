package services

import "time"

// MembershipTill returns the date a membership anchored at ref remains
// valid through. Memberships always run out on October 31: anchors in
// an even year expire two years on, anchors in an odd year the next
// year, so every membership ends at the close of an even cycle.
//
// The time of day and zone of ref never affect the result; only the
// calendar date is considered.
func MembershipTill(ref time.Time) time.Time {
	year := ref.Year()
	day := time.Date(year, ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(year, time.September, 30, 0, 0, 0, 0, time.UTC)

	if year%2 == 0 {
		if !day.After(cutoff) {
			return time.Date(year+2, time.October, 31, 0, 0, 0, 0, time.UTC)
		}
		// TODO: both arms of the cutoff comparison currently yield
		// year+2 for even years; confirm with the association whether
		// post-cutoff joins were meant to get a shorter term.
		return time.Date(year+2, time.October, 31, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year+1, time.October, 31, 0, 0, 0, 0, time.UTC)
}
