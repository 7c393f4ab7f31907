package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hostcalendar/internal/middleware"
	"hostcalendar/internal/pkg/response"
	"hostcalendar/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{UserID: middleware.UserID(c), IsHost: middleware.IsHost(c)}
}

// bindJSON decodes and validates the body, writing a 422 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadJSON(c)
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid query parameters")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return false
	}
	return true
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", ErrBookingNotFound.Error())
		return 0, false
	}
	return id, true
}

func (h *Handler) GetCalendar(c *gin.Context) {
	cal, owner, err := h.service.GetCalendar(c.Request.Context(), c.Param("host_username"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if owner {
		response.Success(c, http.StatusOK, ToCalendarDetailOut(cal))
		return
	}
	response.Success(c, http.StatusOK, ToCalendarOut(cal))
}

func (h *Handler) CreateCalendar(c *gin.Context) {
	var req CreateCalendarRequest
	if !bindJSON(c, &req) {
		return
	}
	cal, err := h.service.CreateCalendar(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToCalendarDetailOut(cal))
}

func (h *Handler) UpdateCalendar(c *gin.Context) {
	var req UpdateCalendarRequest
	if !bindJSON(c, &req) {
		return
	}
	cal, err := h.service.UpdateCalendar(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToCalendarDetailOut(cal))
}

func (h *Handler) CreateTimeSlot(c *gin.Context) {
	var req CreateTimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := ParseTimeOfDay(req.StartTime)
	if err != nil {
		response.ValidationError(c, map[string]string{"start_time": "timeofday"})
		return
	}
	end, err := ParseTimeOfDay(req.EndTime)
	if err != nil {
		response.ValidationError(c, map[string]string{"end_time": "timeofday"})
		return
	}

	slot, err := h.service.CreateTimeSlot(c.Request.Context(), actorFrom(c), TimeSlotInput{
		Start:    start,
		End:      end,
		Weekdays: req.Weekdays,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToTimeSlotOut(slot))
}

func (h *Handler) ListTimeSlots(c *gin.Context) {
	slots, err := h.service.ListTimeSlots(c.Request.Context(), c.Param("host_username"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]TimeSlotOut, 0, len(slots))
	for i := range slots {
		out = append(out, ToTimeSlotOut(&slots[i]))
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	when, err := ParseDate(req.When)
	if err != nil {
		response.ValidationError(c, map[string]string{"when": "isodate"})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.UserID(c), c.Param("host_username"), BookingInput{
		When:        when,
		Topic:       req.Topic,
		Description: req.Description,
		TimeSlotID:  req.TimeSlotID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToBookingOut(b))
}

func (h *Handler) ListHostBookings(c *gin.Context) {
	var q PageQuery
	if !bindQuery(c, &q) {
		return
	}
	bookings, err := h.service.ListHostBookings(c.Request.Context(), actorFrom(c), Page{Number: q.Page, Size: q.PageSize})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingOuts(bookings))
}

func (h *Handler) ListHostMonthBookings(c *gin.Context) {
	var q MonthQuery
	if !bindQuery(c, &q) {
		return
	}
	bookings, err := h.service.ListHostMonthBookings(c.Request.Context(), c.Param("host_username"), q.Year, time.Month(q.Month))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToSimpleBookingOuts(bookings))
}

func (h *Handler) ListGuestBookings(c *gin.Context) {
	var q GuestPageQuery
	if !bindQuery(c, &q) {
		return
	}
	bookings, err := h.service.ListGuestBookings(c.Request.Context(), middleware.UserID(c), Page{Number: q.Page, Size: q.PageSize})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingOuts(bookings))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingOut(b))
}

func (h *Handler) GuestUpdateBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req GuestUpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	when, ok := optionalDate(c, req.When)
	if !ok {
		return
	}

	b, err := h.service.GuestUpdateBooking(c.Request.Context(), middleware.UserID(c), id, BookingChange{
		Topic:       req.Topic,
		Description: req.Description,
		When:        when,
		TimeSlotID:  req.TimeSlotID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingOut(b))
}

func (h *Handler) HostUpdateBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req HostUpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	when, ok := optionalDate(c, req.When)
	if !ok {
		return
	}

	b, err := h.service.HostUpdateBooking(c.Request.Context(), middleware.UserID(c), id, BookingChange{
		When:       when,
		TimeSlotID: req.TimeSlotID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingOut(b))
}

func (h *Handler) UpdateAttendance(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req UpdateAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.service.HostUpdateAttendance(c.Request.Context(), middleware.UserID(c), id, req.AttendanceStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingOut(b))
}

func optionalDate(c *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil {
		return nil, true
	}
	d, err := ParseDate(*raw)
	if err != nil {
		response.ValidationError(c, map[string]string{"when": "isodate"})
		return nil, false
	}
	return &d, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrHostNotFound):
		response.Error(c, http.StatusNotFound, "HOST_NOT_FOUND", err.Error())
	case errors.Is(err, ErrCalendarNotFound):
		response.Error(c, http.StatusNotFound, "CALENDAR_NOT_FOUND", err.Error())
	case errors.Is(err, ErrTimeSlotNotFound):
		response.Error(c, http.StatusNotFound, "TIME_SLOT_NOT_FOUND", err.Error())
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", err.Error())
	case errors.Is(err, ErrCalendarAlreadyExists):
		response.Error(c, http.StatusUnprocessableEntity, "CALENDAR_ALREADY_EXISTS", err.Error())
	case errors.Is(err, ErrTimeSlotOverlap):
		response.Error(c, http.StatusUnprocessableEntity, "TIME_SLOT_OVERLAP", err.Error())
	case errors.Is(err, ErrGuestPermission):
		response.Error(c, http.StatusForbidden, "GUEST_PERMISSION", err.Error())
	case errors.Is(err, ErrInvalidTimeRange), errors.Is(err, ErrInvalidWeekdays),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrNothingToUpdate):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		response.Internal(c, err)
	}
}
