package calendar

import (
	"context"
	"errors"
	"time"

	"hostcalendar/internal/database"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) CreateCalendar(ctx context.Context, c *Calendar) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrCalendarAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetCalendarByHost(ctx context.Context, hostID int64) (*Calendar, error) {
	var c Calendar
	if err := r.db.WithContext(ctx).Where("host_id = ?", hostID).First(&c).Error; err != nil {
		return nil, notFound(err, ErrCalendarNotFound)
	}
	return &c, nil
}

// LockCalendarByHost reads the calendar with SELECT ... FOR UPDATE so slot
// writers on the same calendar run one at a time. SQLite ignores the clause
// and serializes writers on its own.
func (r *Repository) LockCalendarByHost(ctx context.Context, hostID int64) (*Calendar, error) {
	var c Calendar
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("host_id = ?", hostID).
		First(&c).Error
	if err != nil {
		return nil, notFound(err, ErrCalendarNotFound)
	}
	return &c, nil
}

func (r *Repository) SaveCalendar(ctx context.Context, c *Calendar) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *Repository) CreateTimeSlot(ctx context.Context, s *TimeSlot) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

// ListOverlappingSlots returns slots of the calendar whose interval intersects
// [start, end). Weekdays are not filtered here.
func (r *Repository) ListOverlappingSlots(ctx context.Context, calendarID int64, start, end datatypes.Time) ([]TimeSlot, error) {
	var slots []TimeSlot
	err := r.db.WithContext(ctx).
		Where("calendar_id = ? AND start_time < ? AND end_time > ?", calendarID, end, start).
		Order("start_time").
		Find(&slots).Error
	return slots, err
}

func (r *Repository) GetTimeSlotInCalendar(ctx context.Context, slotID, calendarID int64) (*TimeSlot, error) {
	var s TimeSlot
	err := r.db.WithContext(ctx).
		Where("id = ? AND calendar_id = ?", slotID, calendarID).
		First(&s).Error
	if err != nil {
		return nil, notFound(err, ErrTimeSlotNotFound)
	}
	return &s, nil
}

func (r *Repository) ListTimeSlots(ctx context.Context, calendarID int64) ([]TimeSlot, error) {
	var slots []TimeSlot
	err := r.db.WithContext(ctx).
		Where("calendar_id = ?", calendarID).
		Order("start_time, id").
		Find(&slots).Error
	return slots, err
}

func (r *Repository) CreateBooking(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *Repository) SaveBooking(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

func (r *Repository) GetBookingForGuest(ctx context.Context, bookingID, guestID int64) (*Booking, error) {
	return r.firstBooking(r.bookings(ctx).
		Where("bookings.id = ? AND bookings.guest_id = ?", bookingID, guestID))
}

func (r *Repository) GetBookingForHost(ctx context.Context, bookingID, hostID int64) (*Booking, error) {
	return r.firstBooking(r.bookings(ctx).
		Where("bookings.id = ? AND calendars.host_id = ?", bookingID, hostID))
}

func (r *Repository) GetBookingVisibleTo(ctx context.Context, bookingID, userID int64) (*Booking, error) {
	return r.firstBooking(r.bookings(ctx).
		Where("bookings.id = ? AND (bookings.guest_id = ? OR calendars.host_id = ?)", bookingID, userID, userID))
}

func (r *Repository) ListCalendarBookings(ctx context.Context, calendarID int64, page Page) ([]Booking, error) {
	var out []Booking
	err := r.bookings(ctx).
		Where("time_slots.calendar_id = ?", calendarID).
		Order("bookings.scheduled_on DESC, bookings.created_at DESC, bookings.id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&out).Error
	return out, err
}

func (r *Repository) ListCalendarBookingsBetween(ctx context.Context, calendarID int64, from, to time.Time) ([]Booking, error) {
	var out []Booking
	err := r.bookings(ctx).
		Where("time_slots.calendar_id = ? AND bookings.scheduled_on >= ? AND bookings.scheduled_on < ?",
			calendarID, datatypes.Date(from), datatypes.Date(to)).
		Order("bookings.scheduled_on DESC, bookings.id DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) ListGuestBookings(ctx context.Context, guestID int64, page Page) ([]Booking, error) {
	var out []Booking
	err := r.bookings(ctx).
		Where("bookings.guest_id = ?", guestID).
		Order("bookings.scheduled_on DESC, bookings.created_at DESC, bookings.id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&out).Error
	return out, err
}

// bookings joins the ownership chain booking -> slot -> calendar and preloads
// what the response needs.
func (r *Repository) bookings(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Select("bookings.*").
		Joins("JOIN time_slots ON time_slots.id = bookings.time_slot_id").
		Joins("JOIN calendars ON calendars.id = time_slots.calendar_id").
		Preload("TimeSlot").
		Preload("TimeSlot.Calendar").
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("booking_files.created_at")
		})
}

func (r *Repository) firstBooking(q *gorm.DB) (*Booking, error) {
	var b Booking
	if err := q.First(&b).Error; err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	return &b, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
