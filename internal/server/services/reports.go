package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/physiokeeper/internal/timex"
)

const weekDays = 7

// ReportService builds history, analytics and report summaries from the
// stored daily reports.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager) *ReportService {
	return &ReportService{db: db, repomanager: m, now: time.Now}
}

// Today is the server's current date, used when no end date is given.
func (s *ReportService) Today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// History returns every reported day, newest first.
func (s *ReportService) History(ctx context.Context, userID int64) ([]api.HistoryItem, error) {
	days, err := s.repomanager.Reports(s.db).List(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}

	out := make([]api.HistoryItem, 0, len(days))
	for _, d := range days {
		item := api.HistoryItem{
			Date:      d.Date,
			Exercises: make([]api.ExerciseDetail, 0, len(d.Exercises)),
			PainLevel: int(math.Round(averagePain(d))),
		}
		if t, err := time.Parse(timex.DateLayout, d.Date); err == nil {
			item.FormattedDate = t.Format("January 2, 2006")
		}
		for _, e := range d.Exercises {
			item.Exercises = append(item.Exercises, api.ExerciseDetail{Name: e.Name, Sets: e.Sets, Reps: e.Reps, Pain: e.PainLevel})
		}
		out = append(out, item)
	}
	return out, nil
}

// Adherence reports, for the seven days ending at end, the share of active
// exercises completed each day.
func (s *ReportService) Adherence(ctx context.Context, userID int64, end time.Time) (*api.AdherenceStats, error) {
	days, byDate, err := s.week(ctx, userID, end)
	if err != nil {
		return nil, err
	}
	active, err := s.repomanager.UserExercises(s.db).List(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	planned := len(active)

	stats := &api.AdherenceStats{ChartData: chart(days), History: []api.AdherenceEntry{}}
	var sum float64
	for i, day := range days {
		done := 0
		if r, ok := byDate[timex.FormatDate(day)]; ok {
			done = distinctExercises(r)
		}
		pct := adherence(done, planned)
		stats.ChartData.Datasets[0].Data[i] = pct
		sum += pct
	}
	stats.AverageAdherence = round1(sum / weekDays)

	for i := len(days) - 1; i >= 0; i-- {
		r, ok := byDate[timex.FormatDate(days[i])]
		if !ok {
			continue
		}
		done := distinctExercises(r)
		stats.History = append(stats.History, api.AdherenceEntry{
			Date:      days[i].Format("Jan 2"),
			Completed: fmt.Sprintf("%d/%d", done, max(planned, done)),
			Adherence: adherence(done, planned),
		})
	}
	return stats, nil
}

// Pain reports the average pain per day for the seven days ending at end.
// Days without reports chart as zero and are left out of the average.
func (s *ReportService) Pain(ctx context.Context, userID int64, end time.Time) (*api.PainStats, error) {
	days, byDate, err := s.week(ctx, userID, end)
	if err != nil {
		return nil, err
	}

	stats := &api.PainStats{ChartData: chart(days), History: []api.PainEntry{}}
	var (
		sum      float64
		reported int
	)
	for i, day := range days {
		r, ok := byDate[timex.FormatDate(day)]
		if !ok {
			continue
		}
		avg := averagePain(r)
		stats.ChartData.Datasets[0].Data[i] = round1(avg)
		sum += avg
		reported++
	}
	if reported > 0 {
		stats.AveragePain = round1(sum / float64(reported))
	}

	for i := len(days) - 1; i >= 0; i-- {
		r, ok := byDate[timex.FormatDate(days[i])]
		if !ok {
			continue
		}
		names := make([]string, 0, len(r.Exercises))
		for _, e := range r.Exercises {
			names = append(names, e.Name)
		}
		stats.History = append(stats.History, api.PainEntry{
			Date:      days[i].Format("Jan 2"),
			Exercises: strings.Join(names, ", "),
			PainLevel: int(math.Round(averagePain(r))),
		})
	}
	return stats, nil
}

// Reports summarises every daily report, newest first.
func (s *ReportService) Reports(ctx context.Context, userID int64) ([]api.Report, error) {
	days, err := s.repomanager.Reports(s.db).List(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}
	out := make([]api.Report, 0, len(days))
	for _, d := range days {
		out = append(out, api.Report{
			ID:        d.ID,
			Date:      d.Date,
			PainLevel: int(math.Round(averagePain(d))),
			Completed: len(d.Exercises),
		})
	}
	return out, nil
}

// week returns the seven dates ending at end, oldest first, and the reports
// that fall on them keyed by date.
func (s *ReportService) week(ctx context.Context, userID int64, end time.Time) ([]time.Time, map[string]models.DailyReport, error) {
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, weekDays)
	for i := range days {
		days[i] = end.AddDate(0, 0, i-(weekDays-1))
	}

	reports, err := s.repomanager.Reports(s.db).List(ctx, userID, timex.FormatDate(days[0]), timex.FormatDate(end))
	if err != nil {
		return nil, nil, err
	}
	byDate := make(map[string]models.DailyReport, len(reports))
	for _, r := range reports {
		byDate[r.Date] = r
	}
	return days, byDate, nil
}

func chart(days []time.Time) api.ChartData {
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format("Mon")
	}
	return api.ChartData{Labels: labels, Datasets: []api.Dataset{{Data: make([]float64, len(days))}}}
}

func averagePain(r models.DailyReport) float64 {
	if len(r.Exercises) == 0 {
		return 0
	}
	total := 0
	for _, e := range r.Exercises {
		total += e.PainLevel
	}
	return float64(total) / float64(len(r.Exercises))
}

func distinctExercises(r models.DailyReport) int {
	seen := make(map[int64]struct{}, len(r.Exercises))
	for _, e := range r.Exercises {
		seen[e.UserExerciseID] = struct{}{}
	}
	return len(seen)
}

func adherence(done, planned int) float64 {
	if planned == 0 {
		return 0
	}
	return round1(math.Min(100, 100*float64(done)/float64(planned)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
