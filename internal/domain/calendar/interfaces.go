package calendar

import (
	"context"
	"time"

	"hostcalendar/internal/domain/account"

	"gorm.io/datatypes"
)

// Store is the persistence contract of the calendar domain. Lookups that
// carry an owner id match id and owner in one query and report not-found
// otherwise.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateCalendar(ctx context.Context, c *Calendar) error
	GetCalendarByHost(ctx context.Context, hostID int64) (*Calendar, error)
	LockCalendarByHost(ctx context.Context, hostID int64) (*Calendar, error)
	SaveCalendar(ctx context.Context, c *Calendar) error

	CreateTimeSlot(ctx context.Context, s *TimeSlot) error
	ListOverlappingSlots(ctx context.Context, calendarID int64, start, end datatypes.Time) ([]TimeSlot, error)
	GetTimeSlotInCalendar(ctx context.Context, slotID, calendarID int64) (*TimeSlot, error)
	ListTimeSlots(ctx context.Context, calendarID int64) ([]TimeSlot, error)

	CreateBooking(ctx context.Context, b *Booking) error
	SaveBooking(ctx context.Context, b *Booking) error
	GetBookingForGuest(ctx context.Context, bookingID, guestID int64) (*Booking, error)
	GetBookingForHost(ctx context.Context, bookingID, hostID int64) (*Booking, error)
	GetBookingVisibleTo(ctx context.Context, bookingID, userID int64) (*Booking, error)
	ListCalendarBookings(ctx context.Context, calendarID int64, page Page) ([]Booking, error)
	ListCalendarBookingsBetween(ctx context.Context, calendarID int64, from, to time.Time) ([]Booking, error)
	ListGuestBookings(ctx context.Context, guestID int64, page Page) ([]Booking, error)
}

// HostDirectory resolves usernames to accounts.
type HostDirectory interface {
	GetByUsername(ctx context.Context, username string) (*account.User, error)
}

// Notifier receives booking events after a successful commit.
type Notifier interface {
	Publish(userID int64, eventType string, payload any)
}

const (
	EventBookingCreated    = "booking_created"
	EventBookingUpdated    = "booking_updated"
	EventAttendanceChanged = "attendance_changed"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID int64
	IsHost bool
}
