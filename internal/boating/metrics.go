package boating

import "time"

const (
	DatetimeComplete   = "Complete"
	DatetimeDateOnly   = "Date Only"
	DatetimeIncomplete = "Incomplete"

	CoordinatesAvailable    = "Available"
	CoordinatesNotAvailable = "Not Available"
)

func datetimeCompleteness(date *time.Time, timeOfDay *string) string {
	switch {
	case date == nil:
		return DatetimeIncomplete
	case timeOfDay == nil:
		return DatetimeDateOnly
	default:
		return DatetimeComplete
	}
}

func coordinatesAvailability(latitude, longitude *float64) string {
	if latitude != nil && longitude != nil {
		return CoordinatesAvailable
	}
	return CoordinatesNotAvailable
}
