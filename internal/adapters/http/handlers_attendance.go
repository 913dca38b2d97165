package web

import (
	"fmt"
	"net/http"

	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainAttendance "gymhub/internal/domain/attendance"
	domainBadge "gymhub/internal/domain/badge"
)

// checkResponse is a recorded check plus any badges it earned.
type checkResponse struct {
	Record domainAttendance.Record `json:"Record"`
	Badges []domainBadge.Badge     `json:"Badges"`
}

// handleRecordCheck handles POST /api/attendance/check
func handleRecordCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID  string `json:"MemberID"`
		CheckType string `json:"CheckType"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	ctx := r.Context()
	rec, err := orchestrators.ExecuteRecordCheck(ctx, orchestrators.RecordCheckInput{
		MemberID:  memberID,
		CheckType: input.CheckType,
	}, orchestrators.RecordCheckDeps{
		Records:  stores.AttendanceStore,
		Location: options.Location,
		Now:      timeNow,
		Events:   services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := checkResponse{Record: rec, Badges: []domainBadge.Badge{}}
	if input.CheckType == domainAttendance.CheckIn {
		awarded, err := orchestrators.ExecuteAwardAttendanceBadges(ctx, memberID, orchestrators.AwardBadgesDeps{
			Records:    stores.AttendanceStore,
			Badges:     stores.BadgeStore,
			Policy:     options.BadgePolicy,
			Location:   options.Location,
			GenerateID: generateID,
			Now:        timeNow,
			Events:     services.Events,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		if awarded != nil {
			resp.Badges = awarded
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAttendanceRecords handles GET /api/attendance?member_id=&start=&end=
func handleAttendanceRecords(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	memberID, ok := memberScope(w, r, sess, q.Get("member_id"))
	if !ok {
		return
	}
	records, err := projections.QueryGetAttendanceRecords(r.Context(), projections.GetAttendanceRecordsQuery{
		MemberID:  memberID,
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
	}, stores.AttendanceStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, records)
}

// handleAttendanceSummary handles GET /api/attendance/summary?member_id=
func handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	summary, err := projections.QueryGetAttendanceSummary(r.Context(), memberID, projections.GetAttendanceSummaryDeps{
		AttendanceStore: stores.AttendanceStore,
		Location:        options.Location,
		Now:             timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleAttendanceReport handles GET /api/attendance/report?member_id=&year=&month=&format=csv|xlsx
func handleAttendanceReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	now := timeNow().In(gymLocation())
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		http.Error(w, "year must be a number", http.StatusBadRequest)
		return
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		http.Error(w, "month must be a number", http.StatusBadRequest)
		return
	}
	query := projections.MonthlyReportQuery{MemberID: memberID, Year: year, Month: month}
	base := fmt.Sprintf("attendance-%s-%04d-%02d", memberID, year, month)

	switch r.URL.Query().Get("format") {
	case "", "csv":
		out, err := projections.QueryGenerateMonthlyReport(r.Context(), query, stores.AttendanceStore)
		if err != nil {
			writeError(w, err)
			return
		}
		writeCSV(w, base+".csv", out)
	case "xlsx":
		out, err := projections.QueryGenerateMonthlyReportXLSX(r.Context(), query, stores.AttendanceStore)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+base+`.xlsx"`)
		w.Write(out)
	default:
		http.Error(w, "format must be csv or xlsx", http.StatusBadRequest)
	}
}

// handleRequestCorrection handles POST /api/attendance/corrections
func handleRequestCorrection(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID string `json:"MemberID"`
		Date     string `json:"Date"`
		Reason   string `json:"Reason"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	c, err := orchestrators.ExecuteRequestCorrection(r.Context(), orchestrators.RequestCorrectionInput{
		MemberID: memberID,
		Date:     input.Date,
		Reason:   input.Reason,
	}, orchestrators.RequestCorrectionDeps{
		Corrections: stores.AttendanceStore,
		GenerateID:  generateID,
		Now:         timeNow,
		Events:      services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleListCorrections handles GET /api/attendance/corrections?status= (admin)
func handleListCorrections(w http.ResponseWriter, r *http.Request) {
	corrections, err := projections.QueryListCorrections(r.Context(), r.URL.Query().Get("status"), stores.AttendanceStore)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeList(w, corrections)
}

// handleResolveCorrection handles POST /api/attendance/corrections/{id}/{decision} (admin)
func handleResolveCorrection(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var approve bool
	switch r.PathValue("decision") {
	case "approve":
		approve = true
	case "deny":
	default:
		http.Error(w, "decision must be approve or deny", http.StatusBadRequest)
		return
	}
	c, err := orchestrators.ExecuteHandleCorrection(r.Context(), orchestrators.HandleCorrectionInput{
		CorrectionID: r.PathValue("id"),
		Approve:      approve,
		AdminID:      sess.AccountID,
	}, orchestrators.HandleCorrectionDeps{
		Corrections: stores.AttendanceStore,
		Records:     stores.AttendanceStore,
		Now:         timeNow,
		Events:      services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleBulkAttendance handles POST /api/attendance/bulk (admin)
// Each listed member's record for the date is replaced, dropping check times.
func handleBulkAttendance(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Date      string   `json:"Date"`
		MemberIDs []string `json:"MemberIDs"`
		Status    string   `json:"Status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res, err := orchestrators.ExecuteBulkUpdateAttendance(r.Context(), orchestrators.BulkUpdateAttendanceInput{
		Date:      input.Date,
		MemberIDs: input.MemberIDs,
		Status:    input.Status,
		ActorID:   sess.AccountID,
	}, orchestrators.BulkUpdateAttendanceDeps{
		Records: stores.AttendanceStore,
		Now:     timeNow,
		Events:  services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"Keys": res.Keys})
}

// itemView is an ItemResult with the error rendered as text.
type itemView struct {
	ID    string `json:"ID"`
	Error string `json:"Error,omitempty"`
}

func itemViews(results []orchestrators.ItemResult) []itemView {
	out := make([]itemView, 0, len(results))
	for _, res := range results {
		v := itemView{ID: res.ID}
		if res.Err != nil {
			v.Error = res.Err.Error()
		}
		out = append(out, v)
	}
	return out
}

// handleNotifyAbsent handles POST /api/attendance/notify-absent (admin)
func handleNotifyAbsent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DaysThreshold int `json:"DaysThreshold"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res, err := orchestrators.ExecuteNotifyAbsentMembers(r.Context(), input.DaysThreshold, orchestrators.NotifyAbsentDeps{
		Members:       stores.MemberStore,
		Records:       stores.AttendanceStore,
		Notifications: stores.NotificationStore,
		Email:         services.Email,
		Outbox:        stores.OutboxStore,
		Location:      options.Location,
		Concurrency:   options.BulkConcurrency,
		GenerateID:    generateID,
		Now:           timeNow,
		Events:        services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	flagged := res.Flagged
	if flagged == nil {
		flagged = []string{}
	}
	writeJSON(w, http.StatusOK, struct {
		Flagged []string   `json:"Flagged"`
		Results []itemView `json:"Results"`
	}{flagged, itemViews(res.Results)})
}

// handleBadges handles GET /api/badges?member_id=
func handleBadges(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	badges, err := stores.BadgeStore.ListByMemberID(r.Context(), memberID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, badges)
}
