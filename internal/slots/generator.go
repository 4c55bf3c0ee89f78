// Package slots computes bookable appointment start times from weekly
// availability, existing appointments and time off. Everything here is pure.
package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"devtracker/internal/domain"
)

// Stride is the spacing between candidate start times. It does not depend on the
// requested duration or on schedule buffers.
const Stride = 30 * time.Minute

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Compute returns the slots of the requested duration that can be booked on date.
//
// date carries the location used to read the schedules' wall-clock times. Any
// time-off row blocks the whole date. Schedules are processed in input order and
// their slots concatenated, so overlapping schedules can yield duplicates.
// Durations outside [1, domain.MaxDurationMinutes] yield no slots.
func Compute(
	date time.Time,
	durationMinutes int,
	schedules []domain.AvailabilitySchedule,
	appointments []domain.Appointment,
	timeOff []domain.TimeOffRequest,
	now time.Time,
) []domain.Slot {
	result := []domain.Slot{}

	if len(timeOff) > 0 || len(schedules) == 0 || durationMinutes <= 0 || durationMinutes > domain.MaxDurationMinutes {
		return result
	}

	duration := time.Duration(durationMinutes) * time.Minute
	dateStr := date.Format(dateLayout)

	for _, schedule := range schedules {
		if !schedule.IsActive {
			continue
		}

		windowStart, err := ParseClock(date, schedule.StartTime)
		if err != nil {
			continue
		}
		windowEnd, err := ParseClock(date, schedule.EndTime)
		if err != nil {
			continue
		}

		for cursor := windowStart; cursor.Before(windowEnd); cursor = cursor.Add(Stride) {
			slotEnd := cursor.Add(duration)

			if conflicts(cursor, slotEnd, appointments) {
				continue
			}
			if !cursor.After(now) {
				continue
			}

			result = append(result, domain.Slot{
				Date:     dateStr,
				Time:     cursor.Format(clockLayout),
				Duration: durationMinutes,
			})
		}
	}

	return result
}

// Upcoming drops slots that no longer start strictly after now. It is used on
// lists computed earlier, such as cached responses.
func Upcoming(list []domain.Slot, loc *time.Location, now time.Time) []domain.Slot {
	result := make([]domain.Slot, 0, len(list))
	for _, s := range list {
		start, err := time.ParseInLocation(dateLayout+" "+clockLayout, s.Date+" "+s.Time, loc)
		if err != nil {
			continue
		}
		if start.After(now) {
			result = append(result, s)
		}
	}
	return result
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ParseClock places an HH:MM wall-clock time on date's calendar day and location.
func ParseClock(date time.Time, clock string) (time.Time, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", clock)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", clock)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

func conflicts(start, end time.Time, appointments []domain.Appointment) bool {
	for _, a := range appointments {
		if a.Status == domain.AppointmentStatusCancelled {
			continue
		}
		if Overlaps(start, end, a.AppointmentDate, a.End()) {
			return true
		}
	}
	return false
}
