package api

// ExerciseDetail is one exercise inside a history day.
type ExerciseDetail struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
	Pain int    `json:"pain"`
}

// HistoryItem is one day of GET /reports/exercise_history/.
type HistoryItem struct {
	Date          string           `json:"date"`
	FormattedDate string           `json:"formatted_date"`
	Exercises     []ExerciseDetail `json:"exercises"`
	PainLevel     int              `json:"pain_level"`
}

// HistoryResponse wraps the exercise history.
type HistoryResponse struct {
	History []HistoryItem `json:"history"`
}

// Dataset is one chart series.
type Dataset struct {
	Data []float64 `json:"data"`
}

// ChartData is a weekly chart, one label per day.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// EmptyWeek is shown until the first analytics response arrives.
func EmptyWeek() ChartData {
	return ChartData{
		Labels:   []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Datasets: []Dataset{{Data: make([]float64, 7)}},
	}
}

// AdherenceEntry is one day of adherence history.
type AdherenceEntry struct {
	Date      string  `json:"date"`
	Completed string  `json:"completed"`
	Adherence float64 `json:"adherence"`
}

// AdherenceStats is returned by GET /reports/adherence_stats/.
type AdherenceStats struct {
	ChartData        ChartData        `json:"chart_data"`
	AverageAdherence float64          `json:"average_adherence"`
	History          []AdherenceEntry `json:"history"`
}

// PainEntry is one day of pain history.
type PainEntry struct {
	Date      string `json:"date"`
	Exercises string `json:"exercises"`
	PainLevel int    `json:"pain_level"`
}

// PainStats is returned by GET /reports/pain_stats/.
type PainStats struct {
	ChartData   ChartData   `json:"chart_data"`
	AveragePain float64     `json:"average_pain"`
	History     []PainEntry `json:"history"`
}

// Report is one daily report of GET /reports/, newest first.
type Report struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	PainLevel int    `json:"pain_level"`
	Completed int    `json:"completed"`
}
