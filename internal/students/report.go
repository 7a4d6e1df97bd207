package students

import "github.com/mithrel/mriynyk/pkg/api"

// Status is the student's standing as shown on their own page.
type Status string

const (
	StatusNoData    Status = "no data"
	StatusActive    Status = "active"
	StatusAttention Status = "attention"
)

const (
	// AttentionAbsences is the absence count that flags a student.
	AttentionAbsences = 3
	// AttentionAverage flags a student whose average falls below it.
	AttentionAverage = 7.0
)

// Report is the per-student summary: the class view (recent window,
// trend, scores of one day) and the student view (totals, status).
type Report struct {
	Student api.Student `json:"student"`

	RecentAbsences   []api.Absence `json:"recent_absences"`
	RecentAverage    float64       `json:"recent_average"`
	HasRecentAverage bool          `json:"has_recent_average"`

	Trend    int  `json:"trend"`
	HasTrend bool `json:"has_trend"`

	Dates        DateNav     `json:"-"`
	SelectedDate string      `json:"selected_date,omitempty"`
	DayScores    []api.Score `json:"day_scores"`

	Absences   int     `json:"absences"`
	Average    float64 `json:"average"`
	HasAverage bool    `json:"has_average"`
	Status     Status  `json:"status"`
}

// BuildReport summarizes data. days is the recent window; dateIndex picks the
// score day (0 = first listed) and is reset to 0 when out of range.
func BuildReport(student api.Student, data api.StudentData, days, dateIndex int) Report {
	if days <= 0 {
		days = DefaultRecentDays
	}
	numeric := NumericScores(data.Scores)
	r := Report{
		Student:        student,
		RecentAbsences: FilterRecent(data.Absences, absenceDate, days),
		Absences:       len(data.Absences),
		Trend:          Trend(numeric),
		HasTrend:       len(numeric) >= 4,
	}
	if recent := NumericScores(FilterRecent(data.Scores, scoreDate, days)); len(recent) > 0 {
		r.RecentAverage, r.HasRecentAverage = Average(recent), true
	}
	if len(numeric) > 0 {
		r.Average, r.HasAverage = Average(numeric), true
	}

	r.Dates = NewDateNav(ScoreDates(data.Scores), dateIndex)
	if day, ok := r.Dates.Selected(); ok {
		r.SelectedDate = day
		for _, s := range data.Scores {
			if s.Date == day {
				r.DayScores = append(r.DayScores, s)
			}
		}
	}

	r.Status = status(len(data.Absences), len(data.Scores), numeric)
	return r
}

func status(absences, scores int, numeric []float64) Status {
	if absences == 0 && scores == 0 {
		return StatusNoData
	}
	if absences >= AttentionAbsences || (len(numeric) > 0 && Average(numeric) < AttentionAverage) {
		return StatusAttention
	}
	return StatusActive
}
