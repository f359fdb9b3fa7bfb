package models

// StatusStats holds per-status session counts
type StatusStats struct {
	Active      int `json:"active"`
	Completed   int `json:"completed"`
	Interrupted int `json:"interrupted"`
}

// Stats is the aggregated view over a session collection
type Stats struct {
	// TotalSessions is the number of sessions in the collection
	TotalSessions int `json:"totalSessions"`

	// ActiveSessions is the number of sessions still running
	ActiveSessions int `json:"activeSessions"`

	// TotalTime is the summed duration in minutes over completed sessions
	TotalTime int `json:"totalTime"`

	// TodayTime is the summed duration in minutes over completed sessions
	// that started on the reference date
	TodayTime int `json:"todayTime"`

	// StatusStats counts sessions per lifecycle state
	StatusStats StatusStats `json:"statusStats"`

	// CategoryStats maps category to summed minutes
	CategoryStats map[string]int `json:"categoryStats"`

	// ModuleStats maps module to summed minutes
	ModuleStats map[string]int `json:"moduleStats"`

	// TriggerStats maps trigger ("Ausloeser") to occurrence count
	TriggerStats map[string]int `json:"ausloeserStats"`

	// ProblemStats maps problem text to occurrence count
	ProblemStats map[string]int `json:"problemStats"`

	// AvgDuration is the mean duration in minutes over completed sessions
	AvgDuration int `json:"avgDuration"`

	// SuccessRate is completed / (completed + interrupted) in percent, rounded
	SuccessRate int `json:"successRate"`
}
