package calendar

import "errors"

var (
	ErrHostNotFound          = errors.New("host not found")
	ErrCalendarNotFound      = errors.New("calendar not found")
	ErrCalendarAlreadyExists = errors.New("calendar already exists")
	ErrGuestPermission       = errors.New("guests cannot manage calendars")
	ErrTimeSlotOverlap       = errors.New("time slot overlaps an existing slot")
	ErrTimeSlotNotFound      = errors.New("time slot not found")
	ErrBookingNotFound       = errors.New("booking not found")

	ErrInvalidTimeRange = errors.New("start_time must be before end_time")
	ErrInvalidWeekdays  = errors.New("weekdays must be a non-empty subset of 0..6")
	ErrInvalidStatus    = errors.New("unknown attendance status")
	ErrNothingToUpdate  = errors.New("at least one field must be provided")
)
