package report

type SummaryResponse struct {
	Employees      map[string]int64 `json:"employees"`
	Absences       map[string]int64 `json:"absences"`
	Vacations      map[string]int64 `json:"vacations"`
	Shifts         map[string]int64 `json:"shifts"`
	OpenDeviations int64            `json:"openDeviations"`
	GeneratedAt    string           `json:"generatedAt"`
}
