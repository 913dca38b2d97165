package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gymhub/internal/adapters/http/middleware"
	"gymhub/internal/adapters/storage"
	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainAccount "gymhub/internal/domain/account"
	domainProgress "gymhub/internal/domain/progress"
	domainTrainer "gymhub/internal/domain/trainer"
)

func trainerDeps() orchestrators.TrainerDeps {
	return orchestrators.TrainerDeps{
		Trainer:    stores.TrainerStore,
		GenerateID: generateID,
		Now:        timeNow,
		Events:     services.Events,
	}
}

// trainerScope resolves the trainer a request acts on.
// Trainers always act as themselves; admins name the trainer.
// POST: returns false after writing 400 or 403
func trainerScope(w http.ResponseWriter, r *http.Request, sess middleware.Session, requested string) (string, bool) {
	if sess.Role == domainAccount.RoleTrainer {
		if requested != "" && requested != sess.AccountID {
			slog.Warn("auth_denied", "path", r.URL.Path, "account_id", sess.AccountID, "reason", "foreign trainer")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return "", false
		}
		return sess.AccountID, true
	}
	if requested == "" {
		http.Error(w, "trainer_id is required", http.StatusBadRequest)
		return "", false
	}
	return requested, true
}

// handleLogSession handles POST /api/trainer/session-logs (staff)
func handleLogSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		TrainerID       string   `json:"TrainerID"`
		MemberID        string   `json:"MemberID"`
		Date            string   `json:"Date"`
		DurationMinutes int      `json:"DurationMinutes"`
		Exercises       []string `json:"Exercises"`
		Notes           string   `json:"Notes"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	trainerID, ok := trainerScope(w, r, sess, input.TrainerID)
	if !ok {
		return
	}
	l, err := orchestrators.ExecuteLogSession(r.Context(), domainTrainer.SessionLog{
		TrainerID:       trainerID,
		MemberID:        input.MemberID,
		Date:            dayOrToday(input.Date),
		DurationMinutes: input.DurationMinutes,
		Exercises:       input.Exercises,
		Notes:           input.Notes,
	}, trainerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// handleSessionLogs handles GET /api/trainer/session-logs?trainer_id= (staff)
func handleSessionLogs(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	trainerID, ok := trainerScope(w, r, sess, r.URL.Query().Get("trainer_id"))
	if !ok {
		return
	}
	logs, err := stores.TrainerStore.ListSessionLogs(r.Context(), trainerID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, logs)
}

// handleSuggestRoutine handles POST /api/trainer/routines (staff)
func handleSuggestRoutine(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		TrainerID string                   `json:"TrainerID"`
		MemberID  string                   `json:"MemberID"`
		Name      string                   `json:"Name"`
		Exercises []domainTrainer.Exercise `json:"Exercises"`
		Notes     string                   `json:"Notes"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	trainerID, ok := trainerScope(w, r, sess, input.TrainerID)
	if !ok {
		return
	}
	routine, err := orchestrators.ExecuteSuggestRoutine(r.Context(), domainTrainer.Routine{
		TrainerID: trainerID,
		MemberID:  input.MemberID,
		Name:      input.Name,
		Exercises: input.Exercises,
		Notes:     input.Notes,
	}, trainerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, routine)
}

// handleRoutines handles GET /api/routines?member_id=
func handleRoutines(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	routines, err := stores.TrainerStore.ListRoutines(r.Context(), memberID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, routines)
}

// handleScheduleSession handles POST /api/trainer/sessions (staff)
func handleScheduleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		TrainerID string    `json:"TrainerID"`
		MemberID  string    `json:"MemberID"`
		StartsAt  time.Time `json:"StartsAt"`
		Type      string    `json:"Type"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	trainerID, ok := trainerScope(w, r, sess, input.TrainerID)
	if !ok {
		return
	}
	s, err := orchestrators.ExecuteScheduleSession(r.Context(), orchestrators.ScheduleSessionInput{
		TrainerID: trainerID,
		MemberID:  input.MemberID,
		StartsAt:  input.StartsAt,
		Type:      input.Type,
	}, trainerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// handleScheduledSessions handles GET /api/trainer/sessions?trainer_id=&start=&end= (staff)
// Without a range the next WorkloadWindow is listed.
func handleScheduledSessions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	trainerID, ok := trainerScope(w, r, sess, r.URL.Query().Get("trainer_id"))
	if !ok {
		return
	}
	start, err := queryTime(r, "start")
	if err != nil {
		http.Error(w, "start must be YYYY-MM-DD or RFC 3339", http.StatusBadRequest)
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		http.Error(w, "end must be YYYY-MM-DD or RFC 3339", http.StatusBadRequest)
		return
	}
	if start.IsZero() {
		start = timeNow()
	}
	if end.IsZero() {
		end = start.Add(domainTrainer.WorkloadWindow)
	}
	sessionsList, err := projections.QueryScheduledSessions(r.Context(), projections.ScheduledSessionsQuery{
		TrainerID: trainerID,
		Start:     start,
		End:       end,
	}, stores.TrainerStore)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeList(w, sessionsList)
}

// handleUpdateSessionStatus handles POST /api/trainer/sessions/{id}/status (staff)
// Trainers may only change their own sessions.
func handleUpdateSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Status string `json:"Status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")
	if sess.Role == domainAccount.RoleTrainer {
		existing, err := stores.TrainerStore.GetSession(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if existing.TrainerID != sess.AccountID {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}
	s, err := orchestrators.ExecuteUpdateSessionStatus(ctx, id, input.Status, sess.AccountID, trainerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// handleWorkload handles GET /api/trainer/workload?trainer_id= (staff)
func handleWorkload(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	trainerID, ok := trainerScope(w, r, sess, r.URL.Query().Get("trainer_id"))
	if !ok {
		return
	}
	wl, err := projections.QueryTrainerWorkload(r.Context(), trainerID, projections.TrainerWorkloadDeps{
		Sessions: stores.TrainerStore,
		Now:      timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

// handleSetAvailability handles POST /api/trainer/availability (staff)
func handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		TrainerID string               `json:"TrainerID"`
		Slots     []domainTrainer.Slot `json:"Slots"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	trainerID, ok := trainerScope(w, r, sess, input.TrainerID)
	if !ok {
		return
	}
	a, err := orchestrators.ExecuteSetTrainerAvailability(r.Context(), domainTrainer.Availability{
		TrainerID: trainerID,
		Slots:     input.Slots,
	}, trainerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleAvailability handles GET /api/trainers/{id}/availability
// A trainer with no timetable has no slots.
func handleAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, err := stores.TrainerStore.GetAvailability(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		a = domainTrainer.Availability{TrainerID: id}
	} else if err != nil {
		internalError(w, err)
		return
	}
	a.Slots = nonNil(a.Slots)
	writeJSON(w, http.StatusOK, a)
}

func progressQuery(r *http.Request, memberID string) projections.ProgressLogsQuery {
	q := r.URL.Query()
	return projections.ProgressLogsQuery{MemberID: memberID, StartDate: q.Get("start"), EndDate: q.Get("end")}
}

// handleLogProgress handles POST /api/progress
func handleLogProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID     string   `json:"MemberID"`
		Date         string   `json:"Date"`
		WeightKg     *float64 `json:"WeightKg"`
		BMI          *float64 `json:"BMI"`
		BodyFatPct   *float64 `json:"BodyFatPct"`
		MuscleMassKg *float64 `json:"MuscleMassKg"`
		Notes        string   `json:"Notes"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	l, err := orchestrators.ExecuteLogProgress(r.Context(), domainProgress.Log{
		MemberID:     memberID,
		Date:         input.Date,
		WeightKg:     input.WeightKg,
		BMI:          input.BMI,
		BodyFatPct:   input.BodyFatPct,
		MuscleMassKg: input.MuscleMassKg,
		Notes:        input.Notes,
	}, orchestrators.ProgressDeps{
		Progress:   stores.ProgressStore,
		Location:   options.Location,
		GenerateID: generateID,
		Now:        timeNow,
		Events:     services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// handleProgress handles GET /api/progress?member_id=&start=&end=
func handleProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	overview, err := projections.QueryProgressOverview(r.Context(), progressQuery(r, memberID), stores.ProgressStore)
	if err != nil {
		writeError(w, err)
		return
	}
	overview.Logs = nonNil(overview.Logs)
	writeJSON(w, http.StatusOK, overview)
}

// handleExportProgress handles GET /api/progress/export?member_id=&start=&end=
func handleExportProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	out, err := projections.QueryExportProgressCSV(r.Context(), progressQuery(r, memberID), stores.ProgressStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCSV(w, "progress-"+memberID+".csv", out)
}

// handleMemberProgressReports handles GET /api/trainer/members/{id}/progress (staff)
func handleMemberProgressReports(w http.ResponseWriter, r *http.Request) {
	logs, err := projections.QueryMemberProgressReports(r.Context(), r.PathValue("id"), stores.ProgressStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, logs)
}
