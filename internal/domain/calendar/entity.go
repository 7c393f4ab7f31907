package calendar

import (
	"time"

	"gorm.io/datatypes"
)

// AttendanceStatus is a closed set of booking outcomes. Hosts may move a
// booking between any two values; there is no transition table.
type AttendanceStatus string

const (
	StatusScheduled     AttendanceStatus = "scheduled"
	StatusAttended      AttendanceStatus = "attended"
	StatusNoShow        AttendanceStatus = "no_show"
	StatusCancelled     AttendanceStatus = "cancelled"
	StatusSameDayCancel AttendanceStatus = "same_day_cancel"
	StatusLate          AttendanceStatus = "late"
)

var attendanceStatuses = map[AttendanceStatus]bool{
	StatusScheduled:     true,
	StatusAttended:      true,
	StatusNoShow:        true,
	StatusCancelled:     true,
	StatusSameDayCancel: true,
	StatusLate:          true,
}

func (s AttendanceStatus) Valid() bool {
	return attendanceStatuses[s]
}

// Calendar is the single booking surface of a host.
type Calendar struct {
	ID               int64                       `gorm:"primaryKey"`
	HostID           int64                       `gorm:"uniqueIndex;not null"`
	Topics           datatypes.JSONSlice[string] `gorm:"not null"`
	Description      string                      `gorm:"type:text;not null"`
	GoogleCalendarID string                      `gorm:"size:1024;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Calendar) TableName() string { return "calendars" }

// TimeSlot is a weekly recurring window [StartTime, EndTime) on the listed
// weekdays (Monday=0 .. Sunday=6).
type TimeSlot struct {
	ID         int64                    `gorm:"primaryKey"`
	CalendarID int64                    `gorm:"index;not null"`
	Calendar   *Calendar                `gorm:"foreignKey:CalendarID;constraint:OnDelete:CASCADE"`
	StartTime  datatypes.Time           `gorm:"not null"`
	EndTime    datatypes.Time           `gorm:"not null"`
	Weekdays   datatypes.JSONSlice[int] `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (TimeSlot) TableName() string { return "time_slots" }

// Booking pins a TimeSlot to one concrete date for one guest.
type Booking struct {
	ID               int64            `gorm:"primaryKey"`
	TimeSlotID       int64            `gorm:"index;not null"`
	TimeSlot         TimeSlot         `gorm:"foreignKey:TimeSlotID"`
	GuestID          int64            `gorm:"index;not null"`
	When             datatypes.Date   `gorm:"column:scheduled_on;type:date;index;not null"`
	Topic            string           `gorm:"size:120;not null"`
	Description      string           `gorm:"type:text;not null"`
	AttendanceStatus AttendanceStatus `gorm:"size:20;not null"`
	Files            []BookingFile    `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Booking) TableName() string { return "bookings" }

// Date returns the booked day as a UTC midnight time.
func (b *Booking) Date() time.Time {
	return time.Time(b.When)
}

// BookingFile is a file a guest attached to a booking. Bytes live on disk.
type BookingFile struct {
	ID           string `gorm:"size:36;primaryKey"`
	BookingID    int64  `gorm:"index;not null"`
	UploaderID   int64  `gorm:"index;not null"`
	OriginalName string `gorm:"size:255;not null"`
	FilePath     string `gorm:"size:512;not null"`
	FileURL      string `gorm:"size:512;not null"`
	MimeType     string `gorm:"size:100;not null"`
	Size         int64  `gorm:"not null"`
	CreatedAt    time.Time
}

func (BookingFile) TableName() string { return "booking_files" }

// Models lists the tables owned by this package, in dependency order.
func Models() []any {
	return []any{&Calendar{}, &TimeSlot{}, &Booking{}, &BookingFile{}}
}
