package models

// EmotionRecord is one day's journal entry as stored on the server.
// Date is a calendar day in YYYY-MM-DD form and is unique per user.
type EmotionRecord struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Grateful  string `json:"grateful,omitempty"`
	Sad       string `json:"sad,omitempty"`
	Angry     string `json:"angry,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Mood      int    `json:"mood,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// RecordRequest is the body for creating or updating a record
type RecordRequest struct {
	Date     string `json:"date"`
	Grateful string `json:"grateful,omitempty"`
	Sad      string `json:"sad,omitempty"`
	Angry    string `json:"angry,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Mood     int    `json:"mood"`
}

// Request returns the fields of the record as a save request.
func (r EmotionRecord) Request() RecordRequest {
	return RecordRequest{
		Date:     r.Date,
		Grateful: r.Grateful,
		Sad:      r.Sad,
		Angry:    r.Angry,
		Notes:    r.Notes,
		Mood:     r.Mood,
	}
}

// CalendarDay summarises one date of a calendar month
type CalendarDay struct {
	HasRecord bool   `json:"hasRecord"`
	Mood      int    `json:"mood,omitempty"`
	Preview   string `json:"preview,omitempty"`
}

// CalendarMonth is the per-date summary for a month, keyed by YYYY-MM-DD
type CalendarMonth struct {
	Year    int                    `json:"year"`
	Month   int                    `json:"month"`
	Records map[string]CalendarDay `json:"records"`
}
