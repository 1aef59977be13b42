package apitest

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/balkashynov/feelog/internal/models"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(body.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	s.mu.Lock()
	resp := models.AuthResponse{
		AccessToken:  s.mintLocked(acc.user.ID),
		RefreshToken: s.newRefreshLocked(acc.user.ID),
		User:         acc.user,
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !strings.Contains(body.Email, "@") || body.Name == "" || len(body.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email, name and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[strings.ToLower(body.Email)]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	user := s.addAccountLocked(body.Email, body.Name, hash)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, user, "registered")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.refreshTokens[body.RefreshToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	resp := models.RefreshResponse{AccessToken: s.mintLocked(userID)}
	if s.rotateRefresh {
		delete(s.refreshTokens, body.RefreshToken)
		resp.RefreshToken = s.newRefreshLocked(userID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == userID {
			writeData(w, http.StatusOK, acc.user, "")
			return
		}
	}
	writeError(w, http.StatusNotFound, "user not found")
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	s.mu.Lock()
	all := s.records[userIDFrom(r)]
	total := len(all)
	page := []models.EmotionRecord{}
	for i := offset; i < total && len(page) < limit; i++ {
		page = append(page, *all[i])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: page, Total: &total})
}

func (s *Server) handleRecordByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records[userIDFrom(r)] {
		if rec.Date == date {
			writeData(w, http.StatusOK, rec, "")
			return
		}
	}
	writeError(w, http.StatusNotFound, "no record for "+date)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRecordRequest(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records[userID] {
		if rec.Date == req.Date {
			writeError(w, http.StatusConflict, "a record already exists for "+req.Date)
			return
		}
	}
	writeData(w, http.StatusCreated, s.insertLocked(userID, req), "created")
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}
	req, ok := decodeRecordRequest(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	var target *models.EmotionRecord
	for _, rec := range s.records[userID] {
		if rec.ID == id {
			target = rec
		} else if rec.Date == req.Date {
			writeError(w, http.StatusConflict, "a record already exists for "+req.Date)
			return
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	target.Date = req.Date
	target.Grateful = req.Grateful
	target.Sad = req.Sad
	target.Angry = req.Angry
	target.Notes = req.Notes
	target.Mood = req.Mood
	target.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	writeData(w, http.StatusOK, target, "updated")
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}
	userID := userIDFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[userID]
	for i, rec := range recs {
		if rec.ID == id {
			s.records[userID] = append(recs[:i:i], recs[i+1:]...)
			writeJSON(w, http.StatusOK, envelope{Success: true, Message: "deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "record not found")
}

func (s *Server) handleSearchRecords(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	from := r.URL.Query().Get("date_from")
	to := r.URL.Query().Get("date_to")

	s.mu.Lock()
	found := []models.EmotionRecord{}
	for _, rec := range s.records[userIDFrom(r)] {
		if from != "" && rec.Date < from {
			continue
		}
		if to != "" && rec.Date > to {
			continue
		}
		text := strings.ToLower(rec.Grateful + "\n" + rec.Sad + "\n" + rec.Angry + "\n" + rec.Notes)
		if q != "" && !strings.Contains(text, q) {
			continue
		}
		found = append(found, *rec)
	}
	s.mu.Unlock()

	sort.Slice(found, func(i, j int) bool { return found[i].Date > found[j].Date })
	writeData(w, http.StatusOK, found, "")
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid year or month")
		return
	}
	prefix := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-")

	s.mu.Lock()
	days := make(map[string]models.CalendarDay)
	for _, rec := range s.records[userIDFrom(r)] {
		if !strings.HasPrefix(rec.Date, prefix) {
			continue
		}
		preview := rec.Grateful
		for _, text := range []string{rec.Sad, rec.Angry, rec.Notes} {
			if preview == "" {
				preview = text
			}
		}
		days[rec.Date] = models.CalendarDay{HasRecord: true, Mood: rec.Mood, Preview: preview}
	}
	s.mu.Unlock()

	writeData(w, http.StatusOK, models.CalendarMonth{Year: year, Month: month, Records: days}, "")
}

func decodeRecordRequest(w http.ResponseWriter, r *http.Request) (models.RecordRequest, bool) {
	var req models.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if !dateRe.MatchString(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return req, false
	}
	if req.Mood < 1 || req.Mood > 5 {
		writeError(w, http.StatusBadRequest, "mood must be between 1 and 5")
		return req, false
	}
	return req, true
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
