package calendar

import (
	"time"

	"hostcalendar/internal/pkg/validator"

	"gorm.io/datatypes"
)

type CreateCalendarRequest struct {
	Topics           []string `json:"topics" validate:"required,min=1,dive,notblank,max=100"`
	Description      string   `json:"description" validate:"notblank"`
	GoogleCalendarID string   `json:"google_calendar_id" validate:"required,email,max=1024"`
}

type UpdateCalendarRequest struct {
	Topics           *[]string `json:"topics" validate:"omitempty,min=1,dive,notblank,max=100"`
	Description      *string   `json:"description" validate:"omitempty,min=10"`
	GoogleCalendarID *string   `json:"google_calendar_id" validate:"omitempty,email,min=20,max=1024"`
}

type CreateTimeSlotRequest struct {
	StartTime string `json:"start_time" validate:"required,timeofday"`
	EndTime   string `json:"end_time" validate:"required,timeofday"`
	Weekdays  []int  `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
}

type CreateBookingRequest struct {
	When        string `json:"when" validate:"required,isodate"`
	Topic       string `json:"topic" validate:"notblank,max=120"`
	Description string `json:"description" validate:"notblank"`
	TimeSlotID  int64  `json:"time_slot_id" validate:"required,gt=0"`
}

type GuestUpdateBookingRequest struct {
	Topic       *string `json:"topic" validate:"omitempty,notblank,max=120"`
	Description *string `json:"description" validate:"omitempty,notblank"`
	When        *string `json:"when" validate:"omitempty,isodate"`
	TimeSlotID  *int64  `json:"time_slot_id" validate:"omitempty,gt=0"`
}

type HostUpdateBookingRequest struct {
	When       *string `json:"when" validate:"omitempty,isodate"`
	TimeSlotID *int64  `json:"time_slot_id" validate:"omitempty,gt=0"`
}

type UpdateAttendanceRequest struct {
	AttendanceStatus AttendanceStatus `json:"attendance_status" validate:"required"`
}

type PageQuery struct {
	Page     int `form:"page" validate:"required,min=1"`
	PageSize int `form:"page_size" validate:"required,min=1,max=50"`
}

type GuestPageQuery struct {
	Page     int `form:"page" validate:"required,min=1,max=50"`
	PageSize int `form:"page_size" validate:"required,min=1,max=50"`
}

type MonthQuery struct {
	Year  int `form:"year" validate:"required,min=2024,max=2025"`
	Month int `form:"month" validate:"required,min=1,max=12"`
}

// Service-level inputs, already parsed from the wire format.

type TimeSlotInput struct {
	Start    datatypes.Time
	End      datatypes.Time
	Weekdays []int
}

type BookingInput struct {
	When        time.Time
	Topic       string
	Description string
	TimeSlotID  int64
}

type BookingChange struct {
	Topic       *string
	Description *string
	When        *time.Time
	TimeSlotID  *int64
}

func (c BookingChange) empty() bool {
	return c.Topic == nil && c.Description == nil && c.When == nil && c.TimeSlotID == nil
}

type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Responses.

type CalendarOut struct {
	Topics      []string `json:"topics"`
	Description string   `json:"description"`
}

type CalendarDetailOut struct {
	ID               int64     `json:"id"`
	HostID           int64     `json:"host_id"`
	Topics           []string  `json:"topics"`
	Description      string    `json:"description"`
	GoogleCalendarID string    `json:"google_calendar_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TimeSlotOut struct {
	ID        int64     `json:"id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Weekdays  []int     `json:"weekdays"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FileOut struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

type BookingOut struct {
	ID               int64            `json:"id"`
	When             string           `json:"when"`
	Topic            string           `json:"topic"`
	Description      string           `json:"description"`
	TimeSlot         TimeSlotOut      `json:"time_slot"`
	AttendanceStatus AttendanceStatus `json:"attendance_status"`
	Files            []FileOut        `json:"files"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type SimpleBookingOut struct {
	When     string      `json:"when"`
	TimeSlot TimeSlotOut `json:"time_slot"`
}

func ToCalendarOut(c *Calendar) CalendarOut {
	return CalendarOut{Topics: c.Topics, Description: c.Description}
}

func ToCalendarDetailOut(c *Calendar) CalendarDetailOut {
	return CalendarDetailOut{
		ID:               c.ID,
		HostID:           c.HostID,
		Topics:           c.Topics,
		Description:      c.Description,
		GoogleCalendarID: c.GoogleCalendarID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func ToTimeSlotOut(s *TimeSlot) TimeSlotOut {
	return TimeSlotOut{
		ID:        s.ID,
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Weekdays:  s.Weekdays,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToFileOut(f *BookingFile) FileOut {
	return FileOut{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		URL:          f.FileURL,
		MimeType:     f.MimeType,
		Size:         f.Size,
		CreatedAt:    f.CreatedAt,
	}
}

func ToBookingOut(b *Booking) BookingOut {
	files := make([]FileOut, 0, len(b.Files))
	for i := range b.Files {
		files = append(files, ToFileOut(&b.Files[i]))
	}
	return BookingOut{
		ID:               b.ID,
		When:             FormatDate(b.Date()),
		Topic:            b.Topic,
		Description:      b.Description,
		TimeSlot:         ToTimeSlotOut(&b.TimeSlot),
		AttendanceStatus: b.AttendanceStatus,
		Files:            files,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func ToBookingOuts(bs []Booking) []BookingOut {
	out := make([]BookingOut, 0, len(bs))
	for i := range bs {
		out = append(out, ToBookingOut(&bs[i]))
	}
	return out
}

func ToSimpleBookingOuts(bs []Booking) []SimpleBookingOut {
	out := make([]SimpleBookingOut, 0, len(bs))
	for i := range bs {
		out = append(out, SimpleBookingOut{
			When:     FormatDate(bs[i].Date()),
			TimeSlot: ToTimeSlotOut(&bs[i].TimeSlot),
		})
	}
	return out
}

// ParseDate reads a YYYY-MM-DD string as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseTimeOfDay reads "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (datatypes.Time, error) {
	t, err := validator.ParseTimeOfDay(s)
	if err != nil {
		return 0, err
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
}
