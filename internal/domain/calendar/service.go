package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"hostcalendar/internal/domain/account"

	"gorm.io/datatypes"
)

type Service struct {
	store    Store
	hosts    HostDirectory
	notifier Notifier
}

func NewService(store Store, hosts HostDirectory, notifier Notifier) *Service {
	return &Service{store: store, hosts: hosts, notifier: notifier}
}

// GetCalendar returns the host's calendar and whether viewerID owns it.
func (s *Service) GetCalendar(ctx context.Context, hostUsername string, viewerID int64) (*Calendar, bool, error) {
	host, err := s.hosts.GetByUsername(ctx, hostUsername)
	if err != nil {
		return nil, false, hostLookupErr(err)
	}
	cal, err := s.store.GetCalendarByHost(ctx, host.ID)
	if err != nil {
		return nil, false, err
	}
	return cal, viewerID != 0 && viewerID == host.ID, nil
}

func (s *Service) CreateCalendar(ctx context.Context, actor Actor, req CreateCalendarRequest) (*Calendar, error) {
	if !actor.IsHost {
		return nil, ErrGuestPermission
	}
	cal := &Calendar{
		HostID:           actor.UserID,
		Topics:           DedupeTopics(trimAll(req.Topics)),
		Description:      strings.TrimSpace(req.Description),
		GoogleCalendarID: strings.TrimSpace(req.GoogleCalendarID),
	}
	if err := s.store.CreateCalendar(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

func (s *Service) UpdateCalendar(ctx context.Context, actor Actor, req UpdateCalendarRequest) (*Calendar, error) {
	if !actor.IsHost {
		return nil, ErrGuestPermission
	}
	cal, err := s.store.GetCalendarByHost(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if req.Topics != nil {
		cal.Topics = DedupeTopics(trimAll(*req.Topics))
	}
	if req.Description != nil {
		cal.Description = strings.TrimSpace(*req.Description)
	}
	if req.GoogleCalendarID != nil {
		cal.GoogleCalendarID = strings.TrimSpace(*req.GoogleCalendarID)
	}
	if err := s.store.SaveCalendar(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

// CreateTimeSlot adds a recurring slot to the actor's calendar. The calendar
// row is locked for the duration of the conflict check and insert.
func (s *Service) CreateTimeSlot(ctx context.Context, actor Actor, in TimeSlotInput) (*TimeSlot, error) {
	if !actor.IsHost {
		return nil, ErrGuestPermission
	}
	if in.Start >= in.End {
		return nil, ErrInvalidTimeRange
	}
	weekdays, err := NormalizeWeekdays(in.Weekdays)
	if err != nil {
		return nil, err
	}

	var slot *TimeSlot
	err = s.store.Transaction(ctx, func(tx Store) error {
		cal, err := tx.LockCalendarByHost(ctx, actor.UserID)
		if err != nil {
			return err
		}
		conflicts, err := findConflicts(ctx, tx, cal.ID, in.Start, in.End, weekdays)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrTimeSlotOverlap
		}
		slot = &TimeSlot{
			CalendarID: cal.ID,
			StartTime:  in.Start,
			EndTime:    in.End,
			Weekdays:   weekdays,
		}
		return tx.CreateTimeSlot(ctx, slot)
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// FindConflicts returns the ids of slots on the calendar that share at least
// one weekday with the proposal and whose interval intersects [start, end).
func (s *Service) FindConflicts(ctx context.Context, calendarID int64, start, end datatypes.Time, weekdays []int) ([]int64, error) {
	return findConflicts(ctx, s.store, calendarID, start, end, weekdays)
}

func findConflicts(ctx context.Context, st Store, calendarID int64, start, end datatypes.Time, weekdays []int) ([]int64, error) {
	candidates, err := st.ListOverlappingSlots(ctx, calendarID, start, end)
	if err != nil {
		return nil, err
	}
	return Conflicts(candidates, start, end, weekdays), nil
}

func (s *Service) ListTimeSlots(ctx context.Context, hostUsername string) ([]TimeSlot, error) {
	host, err := s.hosts.GetByUsername(ctx, hostUsername)
	if err != nil {
		return nil, hostLookupErr(err)
	}
	cal, err := s.store.GetCalendarByHost(ctx, host.ID)
	if err != nil {
		return nil, err
	}
	return s.store.ListTimeSlots(ctx, cal.ID)
}

// CreateBooking books one slot of hostUsername's calendar on in.When.
func (s *Service) CreateBooking(ctx context.Context, guestID int64, hostUsername string, in BookingInput) (*Booking, error) {
	host, err := s.hosts.GetByUsername(ctx, hostUsername)
	if err != nil {
		return nil, hostLookupErr(err)
	}
	if !host.IsHost {
		return nil, ErrHostNotFound
	}

	var booking *Booking
	err = s.store.Transaction(ctx, func(tx Store) error {
		cal, err := tx.GetCalendarByHost(ctx, host.ID)
		if err != nil {
			if errors.Is(err, ErrCalendarNotFound) {
				return ErrHostNotFound
			}
			return err
		}
		slot, err := resolveSlot(ctx, tx, cal.ID, in.TimeSlotID, in.When)
		if err != nil {
			return err
		}
		booking = &Booking{
			TimeSlotID:       slot.ID,
			GuestID:          guestID,
			When:             datatypes.Date(in.When),
			Topic:            strings.TrimSpace(in.Topic),
			Description:      strings.TrimSpace(in.Description),
			AttendanceStatus: StatusScheduled,
		}
		if err := tx.CreateBooking(ctx, booking); err != nil {
			return err
		}
		slot.Calendar = cal
		booking.TimeSlot = *slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(host.ID, EventBookingCreated, booking)
	return booking, nil
}

// ListHostBookings pages through bookings on the actor's calendar, newest date first.
func (s *Service) ListHostBookings(ctx context.Context, actor Actor, page Page) ([]Booking, error) {
	if !actor.IsHost {
		return nil, ErrHostNotFound
	}
	cal, err := s.store.GetCalendarByHost(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, ErrCalendarNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, err
	}
	return s.store.ListCalendarBookings(ctx, cal.ID, page)
}

func (s *Service) ListHostMonthBookings(ctx context.Context, hostUsername string, year int, month time.Month) ([]Booking, error) {
	host, err := s.hosts.GetByUsername(ctx, hostUsername)
	if err != nil {
		return nil, hostLookupErr(err)
	}
	cal, err := s.store.GetCalendarByHost(ctx, host.ID)
	if err != nil {
		if errors.Is(err, ErrCalendarNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, err
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.store.ListCalendarBookingsBetween(ctx, cal.ID, from, from.AddDate(0, 1, 0))
}

func (s *Service) ListGuestBookings(ctx context.Context, guestID int64, page Page) ([]Booking, error) {
	return s.store.ListGuestBookings(ctx, guestID, page)
}

// GetBooking returns the booking if userID is its guest or its calendar's host.
func (s *Service) GetBooking(ctx context.Context, userID, bookingID int64) (*Booking, error) {
	return s.store.GetBookingVisibleTo(ctx, bookingID, userID)
}

// GuestBooking returns a booking owned by guestID.
func (s *Service) GuestBooking(ctx context.Context, guestID, bookingID int64) (*Booking, error) {
	return s.store.GetBookingForGuest(ctx, bookingID, guestID)
}

func (s *Service) GuestUpdateBooking(ctx context.Context, guestID, bookingID int64, change BookingChange) (*Booking, error) {
	if change.empty() {
		return nil, ErrNothingToUpdate
	}
	var booking *Booking
	err := s.store.Transaction(ctx, func(tx Store) error {
		b, err := tx.GetBookingForGuest(ctx, bookingID, guestID)
		if err != nil {
			return err
		}
		if err := reschedule(ctx, tx, b, change.When, change.TimeSlotID); err != nil {
			return err
		}
		if change.Topic != nil {
			b.Topic = strings.TrimSpace(*change.Topic)
		}
		if change.Description != nil {
			b.Description = strings.TrimSpace(*change.Description)
		}
		booking = b
		return tx.SaveBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publish(hostOf(booking), EventBookingUpdated, booking)
	return booking, nil
}

func (s *Service) HostUpdateBooking(ctx context.Context, hostID, bookingID int64, change BookingChange) (*Booking, error) {
	if change.When == nil && change.TimeSlotID == nil {
		return nil, ErrNothingToUpdate
	}
	var booking *Booking
	err := s.store.Transaction(ctx, func(tx Store) error {
		b, err := tx.GetBookingForHost(ctx, bookingID, hostID)
		if err != nil {
			return err
		}
		if err := reschedule(ctx, tx, b, change.When, change.TimeSlotID); err != nil {
			return err
		}
		booking = b
		return tx.SaveBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publish(hostID, EventBookingUpdated, booking)
	return booking, nil
}

func (s *Service) HostUpdateAttendance(ctx context.Context, hostID, bookingID int64, status AttendanceStatus) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	var booking *Booking
	err := s.store.Transaction(ctx, func(tx Store) error {
		b, err := tx.GetBookingForHost(ctx, bookingID, hostID)
		if err != nil {
			return err
		}
		b.AttendanceStatus = status
		booking = b
		return tx.SaveBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publish(hostID, EventAttendanceChanged, booking)
	return booking, nil
}

// reschedule re-runs slot membership and weekday checks against the calendar
// the booking already belongs to.
func reschedule(ctx context.Context, tx Store, b *Booking, when *time.Time, slotID *int64) error {
	if when == nil && slotID == nil {
		return nil
	}
	date := b.Date()
	if when != nil {
		date = *when
	}
	id := b.TimeSlotID
	if slotID != nil {
		id = *slotID
	}

	slot, err := resolveSlot(ctx, tx, b.TimeSlot.CalendarID, id, date)
	if err != nil {
		return err
	}
	slot.Calendar = b.TimeSlot.Calendar
	b.TimeSlotID = slot.ID
	b.TimeSlot = *slot
	b.When = datatypes.Date(date)
	return nil
}

// resolveSlot loads the slot from the calendar and checks it recurs on date.
func resolveSlot(ctx context.Context, tx Store, calendarID, slotID int64, date time.Time) (*TimeSlot, error) {
	slot, err := tx.GetTimeSlotInCalendar(ctx, slotID, calendarID)
	if err != nil {
		return nil, err
	}
	if !slot.Serves(date) {
		return nil, ErrTimeSlotNotFound
	}
	return slot, nil
}

func (s *Service) publish(hostID int64, eventType string, b *Booking) {
	if s.notifier == nil || hostID == 0 {
		return
	}
	s.notifier.Publish(hostID, eventType, ToBookingOut(b))
}

func hostOf(b *Booking) int64 {
	if b.TimeSlot.Calendar == nil {
		return 0
	}
	return b.TimeSlot.Calendar.HostID
}

func hostLookupErr(err error) error {
	if errors.Is(err, account.ErrUserNotFound) {
		return ErrHostNotFound
	}
	return err
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
