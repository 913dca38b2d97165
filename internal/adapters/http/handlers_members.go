package web

import (
	"errors"
	"net/http"

	"gymhub/internal/adapters/storage"
	"gymhub/internal/application/listutil"
	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainAccount "gymhub/internal/domain/account"
	domainMember "gymhub/internal/domain/member"
)

// maxImportBytes caps the size of a member CSV upload.
const maxImportBytes = 5 << 20

// handleListMembers handles GET /api/members?status=&page=&per_page= (staff)
func handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := listutil.ParsePageParams(q)
	filter := listutil.ParseFilterParams(q, []string{"status"})
	res, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{
		Status: filter.Filters["status"],
		Limit:  page.PerPage,
		Offset: page.Offset(),
	}, stores.MemberStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Members  []domainMember.Member `json:"Members"`
		PageInfo listutil.PageInfo     `json:"PageInfo"`
	}{
		Members:  nonNil(res.Members),
		PageInfo: listutil.NewPageInfo(page.Page, page.PerPage, res.Total),
	})
}

// handleGetMember handles GET /api/members/{id}
// Members may only read their own profile.
func handleGetMember(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.PathValue("id"))
	if !ok {
		return
	}
	m, err := stores.MemberStore.GetByID(r.Context(), memberID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleAddMember handles POST /api/members (admin)
func handleAddMember(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Name      string `json:"Name"`
		Email     string `json:"Email"`
		Phone     string `json:"Phone"`
		TrainerID string `json:"TrainerID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	m, err := orchestrators.ExecuteAddMember(r.Context(), orchestrators.AddMemberInput{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		TrainerID: input.TrainerID,
		ActorID:   sess.AccountID,
	}, orchestrators.AddMemberDeps{
		Members:    stores.MemberStore,
		GenerateID: generateID,
		Now:        timeNow,
		Events:     services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleBanMember handles POST /api/members/{id}/ban (admin)
func handleBanMember(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Reason string `json:"Reason"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	m, err := orchestrators.ExecuteBanMember(r.Context(), r.PathValue("id"), input.Reason, sess.AccountID, orchestrators.BanMemberDeps{
		Members: stores.MemberStore,
		Events:  services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleImportMembers handles POST /api/members/import (admin)
// The body is the CSV itself (text/csv) or a multipart form with a "file" part.
func handleImportMembers(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	body := r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	}
	res, err := orchestrators.ExecuteBulkImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Reader:  body,
		ActorID: sess.AccountID,
	}, orchestrators.ImportMembersDeps{
		Members:     stores.MemberStore,
		Concurrency: options.BulkConcurrency,
		GenerateID:  generateID,
		Now:         timeNow,
		Events:      services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	type rowError struct {
		Row     int    `json:"Row"`
		Message string `json:"Message"`
	}
	rowErrors := make([]rowError, 0, len(res.RowErrors))
	for _, re := range res.RowErrors {
		rowErrors = append(rowErrors, rowError(re))
	}
	writeJSON(w, http.StatusOK, struct {
		Total     int        `json:"Total"`
		Created   int        `json:"Created"`
		RowErrors []rowError `json:"RowErrors"`
		Results   []itemView `json:"Results"`
	}{res.Total, res.Created, rowErrors, itemViews(res.Results)})
}

// handleExportMembers handles GET /api/members/export (admin)
func handleExportMembers(w http.ResponseWriter, r *http.Request) {
	out, err := projections.QueryExportMembersCSV(r.Context(), stores.MemberStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeCSV(w, "members.csv", out)
}

// handleMemberCount handles GET /api/members/count (staff)
func handleMemberCount(w http.ResponseWriter, r *http.Request) {
	n, err := projections.QueryTotalMembers(r.Context(), stores.MemberStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"Total": n})
}

// handleAssignedMembers handles GET /api/trainer/members
// Trainers see their own members; admins name the trainer with trainer_id.
func handleAssignedMembers(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	trainerID := sess.AccountID
	if sess.Role == domainAccount.RoleAdmin && r.URL.Query().Get("trainer_id") != "" {
		trainerID = r.URL.Query().Get("trainer_id")
	}
	members, err := projections.QueryAssignedMembers(r.Context(), trainerID, stores.MemberStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, members)
}

// handleBroadcast handles POST /api/members/broadcast (admin)
func handleBroadcast(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Subject string `json:"Subject"`
		Message string `json:"Message"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	results, err := orchestrators.ExecuteSendMessageToAll(r.Context(), orchestrators.SendMessageToAllInput{
		Subject: input.Subject,
		Message: input.Message,
		ActorID: sess.AccountID,
	}, orchestrators.SendMessageToAllDeps{
		Members:       stores.MemberStore,
		Notifications: stores.NotificationStore,
		Email:         services.Email,
		Outbox:        stores.OutboxStore,
		Concurrency:   options.BulkConcurrency,
		GenerateID:    generateID,
		Now:           timeNow,
		Events:        services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]itemView{"Results": itemViews(results)})
}

// handleNotifications handles GET /api/notifications?member_id=
func handleNotifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	res, err := projections.QueryNotificationsForMember(r.Context(), memberID, stores.NotificationStore)
	if err != nil {
		writeError(w, err)
		return
	}
	res.Notifications = nonNil(res.Notifications)
	writeJSON(w, http.StatusOK, res)
}

// handleSendNotification handles POST /api/notifications (staff)
func handleSendNotification(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MemberID string `json:"MemberID"`
		Message  string `json:"Message"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	n, err := orchestrators.ExecuteSendNotification(r.Context(), input.MemberID, input.Message, orchestrators.SendNotificationDeps{
		Notifications: stores.NotificationStore,
		GenerateID:    generateID,
		Now:           timeNow,
		Events:        services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// handleMarkNotificationRead handles POST /api/notifications/{id}/read
// Members may only mark their own notifications.
func handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")
	if sess.Role == domainAccount.RoleMember {
		n, err := stores.NotificationStore.GetByID(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if n.MemberID != sess.MemberID {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}
	n, err := orchestrators.ExecuteMarkNotificationRead(ctx, id, stores.NotificationStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
