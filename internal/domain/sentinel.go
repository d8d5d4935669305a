package domain

import "time"

// UnknownUsername labels bookings whose user record was deleted after the
// booking was made.
const UnknownUsername = "Unknown User"

// DeletedPackage is the placeholder returned in booking views when the
// referenced package no longer exists. Reads must degrade to it instead of
// failing the whole query.
func DeletedPackage() Package {
	return Package{
		Title:        "Package Deleted",
		Description:  "This package is no longer available",
		Duration:     "N/A",
		Destination:  "N/A",
		Category:     CategoryOther,
		Availability: 0,
		CreatedAt:    time.Now().UTC(),
	}
}
