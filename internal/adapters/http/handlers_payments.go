package web

import (
	"net/http"

	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainAccount "gymhub/internal/domain/account"
	domainPayment "gymhub/internal/domain/payment"
)

func paymentDeps() orchestrators.PaymentDeps {
	return orchestrators.PaymentDeps{
		Payments:   stores.PaymentStore,
		Events:     services.Events,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// handlePayments handles GET /api/payments?member_id=
func handlePayments(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	payments, err := projections.QueryPaymentsForMember(r.Context(), memberID, stores.PaymentStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, payments)
}

// handleCreatePayment handles POST /api/payments (staff)
func handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID    string `json:"MemberID"`
		Amount      int64  `json:"Amount"`
		Currency    string `json:"Currency"`
		Method      string `json:"Method"`
		Status      string `json:"Status"`
		Description string `json:"Description"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteCreatePayment(r.Context(), orchestrators.CreatePaymentInput{
		MemberID:    input.MemberID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Method:      input.Method,
		Status:      input.Status,
		Description: input.Description,
		ActorID:     sess.AccountID,
	}, paymentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleUpdatePaymentStatus handles POST /api/payments/{id}/status (admin)
func handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
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
	p, err := orchestrators.ExecuteUpdatePaymentStatus(r.Context(), r.PathValue("id"), input.Status, sess.AccountID, paymentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleRefundPayment handles POST /api/payments/{id}/refund (admin)
func handleRefundPayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Amount int64  `json:"Amount"`
		Reason string `json:"Reason"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteRefundPayment(r.Context(), orchestrators.RefundPaymentInput{
		PaymentID: r.PathValue("id"),
		Amount:    input.Amount,
		Reason:    input.Reason,
		ActorID:   sess.AccountID,
	}, orchestrators.RefundPaymentDeps{
		PaymentDeps: paymentDeps(),
		Gateway:     services.Payments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleStartCheckout handles POST /api/payments/{id}/checkout
// Members may only pay their own payments.
func handleStartCheckout(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")
	if sess.Role == domainAccount.RoleMember {
		p, err := stores.PaymentStore.GetByID(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if p.MemberID != sess.MemberID {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}
	checkout, err := orchestrators.ExecuteStartCheckout(ctx, id, orchestrators.StartCheckoutDeps{
		PaymentDeps: paymentDeps(),
		Members:     stores.MemberStore,
		Gateway:     services.Payments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

// handlePaymentReminder handles POST /api/payments/{id}/remind (staff)
func handlePaymentReminder(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteSendPaymentReminder(r.Context(), r.PathValue("id"), orchestrators.PaymentReminderDeps{
		PaymentDeps:   paymentDeps(),
		Members:       stores.MemberStore,
		Notifications: stores.NotificationStore,
		Email:         services.Email,
		Outbox:        stores.OutboxStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePaymentsReport handles GET /api/payments/report?start=&end= (admin)
func handlePaymentsReport(w http.ResponseWriter, r *http.Request) {
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
	out, err := projections.QueryGeneratePaymentsReport(r.Context(), projections.PaymentsReportQuery{Start: start, End: end}, stores.PaymentStore)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCSV(w, "payments.csv", out)
}

func billingDeps() orchestrators.BillingDeps {
	return orchestrators.BillingDeps{
		Bills:      stores.PaymentStore,
		Events:     services.Events,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// handleBills handles GET /api/bills?member_id=
func handleBills(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	bills, err := stores.PaymentStore.ListBillsByMemberID(r.Context(), memberID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, bills)
}

// handleCreateBill handles POST /api/bills (admin)
func handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MemberID string `json:"MemberID"`
		Title    string `json:"Title"`
		Amount   int64  `json:"Amount"`
		Currency string `json:"Currency"`
		DueDate  string `json:"DueDate"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	b, err := orchestrators.ExecuteCreateBill(r.Context(), domainPayment.Bill{
		MemberID: input.MemberID,
		Title:    input.Title,
		Amount:   input.Amount,
		Currency: input.Currency,
		DueDate:  input.DueDate,
	}, billingDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// handleCreateInstallmentPlan handles POST /api/installment-plans (admin)
func handleCreateInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MemberID     string `json:"MemberID"`
		Total        int64  `json:"Total"`
		Installments int    `json:"Installments"`
		Interval     string `json:"Interval"`
		StartDate    string `json:"StartDate"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	plan, schedule, err := orchestrators.ExecuteCreateInstallmentPlan(r.Context(), domainPayment.InstallmentPlan{
		MemberID:     input.MemberID,
		Total:        input.Total,
		Installments: input.Installments,
		Interval:     input.Interval,
		StartDate:    input.StartDate,
	}, billingDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Plan     domainPayment.InstallmentPlan `json:"Plan"`
		Schedule []domainPayment.Installment   `json:"Schedule"`
	}{plan, nonNil(schedule)})
}
