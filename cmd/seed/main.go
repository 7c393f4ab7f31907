package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"hostcalendar/internal/app"
	"hostcalendar/internal/database"
	"hostcalendar/internal/domain/account"
	"hostcalendar/internal/domain/calendar"
	"hostcalendar/internal/pkg/clock"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type slotSeed struct {
	start, end string
	weekdays   []int
}

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "hostcal.db"
	}
	db, err := database.Connect(dsn, clock.UTC)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db, app.Models()...); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Children first so foreign keys hold on postgres.
	log.Println("Cleaning old data...")
	for _, table := range []string{"booking_files", "bookings", "time_slots", "calendars", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	ctx := context.Background()
	users := account.NewRepository(db)
	svc := calendar.NewService(calendar.NewRepository(db), users, nil)

	// ================== USERS ==================
	log.Println("Creating users...")
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	mkUser := func(username, display string, host bool) *account.User {
		u := &account.User{
			Username:       username,
			Email:          username + "@example.com",
			DisplayName:    display,
			HashedPassword: string(hash),
			IsHost:         host,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user %s: %v", username, err)
		}
		return u
	}

	hosts := []*account.User{
		mkUser("alice", "Alice Mentor", true),
		mkUser("bruno", "Bruno Coach", true),
	}
	guests := []*account.User{
		mkUser("carol", "Carol", false),
		mkUser("dmitri", "Dmitri", false),
		mkUser("emma", "Emma", false),
	}
	log.Printf("Users created (password for all: password123): %d hosts, %d guests", len(hosts), len(guests))

	// ================== CALENDARS & SLOTS ==================
	log.Println("Creating calendars and time slots...")
	plans := map[string][]slotSeed{
		"alice": {
			{"09:00", "10:00", []int{0, 2, 4}},
			{"10:00", "11:00", []int{0, 2}},
			{"14:00", "15:30", []int{1, 3}},
		},
		"bruno": {
			{"08:30", "09:30", []int{0, 1, 2, 3, 4}},
			{"18:00", "19:00", []int{5}},
		},
	}

	slotsByHost := map[string][]calendar.TimeSlot{}
	for _, h := range hosts {
		actor := calendar.Actor{UserID: h.ID, IsHost: true}
		if _, err := svc.CreateCalendar(ctx, actor, calendar.CreateCalendarRequest{
			Topics:           []string{"career", "code review", "interview prep"},
			Description:      fmt.Sprintf("%s's weekly mentoring hours", h.DisplayName),
			GoogleCalendarID: h.Username + "@group.calendar.google.com",
		}); err != nil {
			log.Fatalf("calendar for %s: %v", h.Username, err)
		}

		for _, p := range plans[h.Username] {
			start, _ := calendar.ParseTimeOfDay(p.start)
			end, _ := calendar.ParseTimeOfDay(p.end)
			slot, err := svc.CreateTimeSlot(ctx, actor, calendar.TimeSlotInput{Start: start, End: end, Weekdays: p.weekdays})
			if err != nil {
				log.Fatalf("slot %s-%s for %s: %v", p.start, p.end, h.Username, err)
			}
			slotsByHost[h.Username] = append(slotsByHost[h.Username], *slot)
		}
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")
	statuses := []calendar.AttendanceStatus{
		calendar.StatusAttended, calendar.StatusNoShow, calendar.StatusLate, calendar.StatusScheduled,
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	created := 0
	for hi, h := range hosts {
		for si, slot := range slotsByHost[h.Username] {
			for gi, g := range guests {
				date := nextServed(&slot, today.AddDate(0, 0, 7*(gi-1)))
				b, err := svc.CreateBooking(ctx, g.ID, h.Username, calendar.BookingInput{
					When:        date,
					Topic:       "career",
					Description: fmt.Sprintf("Session %d with %s", si+1, h.DisplayName),
					TimeSlotID:  slot.ID,
				})
				if err != nil {
					log.Fatalf("booking for %s: %v", g.Username, err)
				}
				if date.Before(today) {
					status := statuses[(hi+si+gi)%len(statuses)]
					if _, err := svc.HostUpdateAttendance(ctx, h.ID, b.ID, status); err != nil {
						log.Fatalf("attendance for booking %d: %v", b.ID, err)
					}
				}
				created++
			}
		}
	}
	log.Printf("Bookings created: %d", created)
	log.Println("Seed complete.")
}

// nextServed returns the first date on or after from that the slot recurs on.
func nextServed(slot *calendar.TimeSlot, from time.Time) time.Time {
	for d := from; ; d = d.AddDate(0, 0, 1) {
		if slot.Serves(d) {
			return d
		}
	}
}
