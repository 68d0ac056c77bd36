package attendance

import (
	"sort"
	"time"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/shift"
)

const (
	minutesPerDay = 24 * 60
	dateLayout    = "2006-01-02"
)

// workDateFor attributes a punch to its logical work date. On a
// midnight-crossing shift, a punch whose time of day is strictly
// before the shift's end minute belongs to the previous calendar day;
// a punch exactly at the end minute stays on its own day.
func workDateFor(t time.Time, s shift.Shift) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if s.CrossesMidnight && shift.MinuteOfDay(t) < s.EndMinutes {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// groupPunches buckets punches per employee per work date, resolving
// device codes to employee ids. Unknown codes are reported once each.
// Punches within a bucket are sorted chronologically.
func groupPunches(punches []attendance.RawPunch, s shift.Shift, deviceMap map[string]string) (map[string]map[string][]time.Time, []string) {
	grouped := make(map[string]map[string][]time.Time)
	unmappedSet := make(map[string]struct{})

	for _, p := range punches {
		employeeID, ok := deviceMap[p.DeviceCode]
		if !ok {
			unmappedSet[p.DeviceCode] = struct{}{}
			continue
		}

		day := workDateFor(p.PunchedAt, s).Format(dateLayout)
		if grouped[employeeID] == nil {
			grouped[employeeID] = make(map[string][]time.Time)
		}
		grouped[employeeID][day] = append(grouped[employeeID][day], p.PunchedAt)
	}

	for _, days := range grouped {
		for _, ts := range days {
			sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
		}
	}

	unmapped := make([]string, 0, len(unmappedSet))
	for code := range unmappedSet {
		unmapped = append(unmapped, code)
	}
	sort.Strings(unmapped)

	return grouped, unmapped
}

// lateMinutes computes minutes past scheduled start. Lateness within
// the grace window is forgiven entirely; beyond it the full distance
// from scheduled start counts.
func lateMinutes(checkIn time.Time, s shift.Shift) int {
	in := shift.MinuteOfDay(checkIn)
	diff := in - s.StartMinutes
	if s.CrossesMidnight && in < s.EndMinutes {
		// After-midnight arrival on a night shift.
		diff = in + (minutesPerDay - s.StartMinutes)
	}
	if diff <= s.LateGraceMinutes {
		return 0
	}
	return diff
}

// earlyLeaveMinutes computes minutes left unworked before scheduled
// end. Checking out at or past the end yields zero.
func earlyLeaveMinutes(checkOut time.Time, s shift.Shift) int {
	out := shift.MinuteOfDay(checkOut)
	var remaining int
	if s.CrossesMidnight && out >= s.StartMinutes {
		// Left before midnight on a night shift.
		remaining = (minutesPerDay - out) + s.EndMinutes
	} else {
		remaining = s.EndMinutes - out
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// computeDay derives one normalized employee-day from its sorted
// punches. The engine is pure; persistence belongs to the caller.
// Worked minutes are clamped to the shift's net span so overtime never
// enters attendance implicitly.
func computeDay(s shift.Shift, employeeID string, workDate time.Time, punches []time.Time, weeklyOff bool, batchID string, now time.Time) attendance.ProcessedAttendanceRecord {
	rec := attendance.ProcessedAttendanceRecord{
		EmployeeID:  employeeID,
		WorkDate:    workDate,
		IsWeeklyOff: weeklyOff,
		BatchID:     batchID,
		CreatedAt:   now,
	}

	switch {
	case len(punches) == 0:
		rec.IsAbsent = !weeklyOff
	case len(punches) == 1:
		in := punches[0]
		rec.CheckIn = &in
		rec.IsIncomplete = true
		rec.LateMinutes = lateMinutes(in, s)
	default:
		in := punches[0]
		out := punches[len(punches)-1]
		rec.CheckIn = &in
		rec.CheckOut = &out

		// The raw punch span counts as worked time; the break is already
		// accounted for by the net-span ceiling. A full-span day lands
		// exactly on NetMinutes, a partial day keeps its raw span.
		worked := int(out.Sub(in).Minutes())
		if worked < 0 {
			worked = 0
		}
		if net := s.NetMinutes(); worked > net {
			worked = net
		}
		rec.TotalMinutes = worked
		rec.LateMinutes = lateMinutes(in, s)
		rec.EarlyLeaveMinutes = earlyLeaveMinutes(out, s)
	}

	return rec
}
