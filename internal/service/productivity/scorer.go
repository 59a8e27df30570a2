// Package productivity turns worksheet entries into day scores and classified
// attendance records into period summaries. The status weights here are the
// only copy; clients fetch them from the weights endpoint.
package productivity

import (
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/worksheet"
	"github.com/shopspring/decimal"
)

var weights = map[worksheet.EntryStatus]float64{
	worksheet.EntryStatusCompleted:  1.0,
	worksheet.EntryStatusInProgress: 0.7,
	worksheet.EntryStatusPending:    0.3,
}

// Weight returns the score weight of status, 0 when unknown.
func Weight(status worksheet.EntryStatus) float64 {
	return weights[status]
}

// Weights returns a copy of the weight table keyed by status name.
func Weights() map[string]float64 {
	out := make(map[string]float64, len(weights))
	for status, w := range weights {
		out[string(status)] = w
	}
	return out
}

// ScoreDay is round(100 * sum(weight) / len(entries)), 0 for no entries.
func ScoreDay(entries []worksheet.Entry) int {
	if len(entries) == 0 {
		return 0
	}

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(decimal.NewFromFloat(Weight(e.Status)))
	}

	score := sum.Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(len(entries)))).
		Round(0).
		IntPart()

	return int(min(max(score, 0), 100))
}

// ScorePeriod summarizes classified records. Averages are taken over records
// with worked minutes and are 0 when there are none. The break average uses the
// logged, unclamped break time.
func ScorePeriod(records []attendance.Record) attendance.PeriodSummary {
	var s attendance.PeriodSummary

	scoreSum, workedSum, breakSum := 0, 0, 0
	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			s.PresentDays++
		case attendance.StatusLate:
			s.PresentDays++
			s.LateDays++
		case attendance.StatusHalfDay:
			s.PresentDays++
			s.HalfDays++
		case attendance.StatusAbsent:
			s.AbsentDays++
		}

		if r.WorkedMinutes == nil {
			continue
		}
		s.RecordedDays++
		scoreSum += r.ProductivityScore
		workedSum += *r.WorkedMinutes
		breakSum += r.BreakMinutesTaken
	}

	if s.RecordedDays == 0 {
		return s
	}

	n := decimal.NewFromInt(int64(s.RecordedDays))
	sixty := decimal.NewFromInt(60)

	s.AverageScore = decimal.NewFromInt(int64(scoreSum)).Div(n).Round(2).InexactFloat64()
	s.AverageWorkingHours = decimal.NewFromInt(int64(workedSum)).Div(sixty).Div(n).Round(2).InexactFloat64()
	s.AverageBreakHours = decimal.NewFromInt(int64(breakSum)).Div(sixty).Div(n).Round(2).InexactFloat64()
	return s
}
