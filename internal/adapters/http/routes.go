package web

import (
	"net/http"

	"gymhub/internal/adapters/http/middleware"
	domainAccount "gymhub/internal/domain/account"
)

// registerRoutes maps the API onto mux.
// Public routes are limited to sign-in and password recovery.
func registerRoutes(mux *http.ServeMux) {
	admin := middleware.RequireRole(domainAccount.RoleAdmin)
	staff := middleware.RequireRole(domainAccount.RoleAdmin, domainAccount.RoleTrainer)
	authed := middleware.RequireAuth

	handle := func(pattern string, wrap func(http.Handler) http.Handler, h http.HandlerFunc) {
		mux.Handle(pattern, wrap(h))
	}
	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, h)
	}

	// Auth
	public("POST /api/login", handleLogin)
	public("POST /api/login/google", handleGoogleLogin)
	public("POST /api/logout", handleLogout)
	public("POST /api/password/forgot", handleForgotPassword)
	public("POST /api/password/reset", handleResetPassword)
	handle("GET /api/me", authed, handleMe)
	handle("POST /api/password/change", authed, handleChangePassword)
	handle("POST /api/accounts", admin, handleCreateAccount)
	handle("GET /api/theme", authed, handleGetTheme)
	handle("POST /api/theme", authed, handleUpdateTheme)

	// Attendance
	handle("POST /api/attendance/check", authed, handleRecordCheck)
	handle("GET /api/attendance", authed, handleAttendanceRecords)
	handle("GET /api/attendance/summary", authed, handleAttendanceSummary)
	handle("GET /api/attendance/report", authed, handleAttendanceReport)
	handle("POST /api/attendance/corrections", authed, handleRequestCorrection)
	handle("GET /api/attendance/corrections", admin, handleListCorrections)
	handle("POST /api/attendance/corrections/{id}/{decision}", admin, handleResolveCorrection)
	handle("POST /api/attendance/bulk", admin, handleBulkAttendance)
	handle("POST /api/attendance/notify-absent", admin, handleNotifyAbsent)
	handle("GET /api/badges", authed, handleBadges)

	// Members and notifications
	handle("GET /api/members", staff, handleListMembers)
	handle("POST /api/members", admin, handleAddMember)
	handle("GET /api/members/count", staff, handleMemberCount)
	handle("GET /api/members/export", admin, handleExportMembers)
	handle("POST /api/members/import", admin, handleImportMembers)
	handle("POST /api/members/broadcast", admin, handleBroadcast)
	handle("GET /api/members/{id}", authed, handleGetMember)
	handle("POST /api/members/{id}/ban", admin, handleBanMember)
	handle("GET /api/notifications", authed, handleNotifications)
	handle("POST /api/notifications", staff, handleSendNotification)
	handle("POST /api/notifications/{id}/read", authed, handleMarkNotificationRead)

	// Payments and billing
	handle("GET /api/payments", authed, handlePayments)
	handle("POST /api/payments", staff, handleCreatePayment)
	handle("GET /api/payments/report", admin, handlePaymentsReport)
	handle("POST /api/payments/{id}/status", admin, handleUpdatePaymentStatus)
	handle("POST /api/payments/{id}/refund", admin, handleRefundPayment)
	handle("POST /api/payments/{id}/checkout", authed, handleStartCheckout)
	handle("POST /api/payments/{id}/remind", staff, handlePaymentReminder)
	handle("GET /api/bills", authed, handleBills)
	handle("POST /api/bills", admin, handleCreateBill)
	handle("POST /api/installment-plans", admin, handleCreateInstallmentPlan)

	// Supplement store
	handle("GET /api/products", authed, handleProducts)
	handle("POST /api/products", admin, handleAddProduct)
	handle("GET /api/products/low-stock", admin, handleLowStock)
	handle("POST /api/products/{id}/stock", admin, handleUpdateStock)
	handle("POST /api/products/{id}/discount", admin, handleApplyDiscount)
	handle("GET /api/products/{id}/reviews", authed, handleProductReviews)
	handle("POST /api/products/{id}/reviews", authed, handleAddReview)
	handle("GET /api/wishlist", authed, handleWishlist)
	handle("POST /api/wishlist/{product}", authed, handleToggleWishlist)

	// Diet
	handle("GET /api/diet/plan", authed, handleDietPlan)
	handle("POST /api/diet/plan", staff, handleSaveDietPlan)
	handle("GET /api/diet/plan/export", authed, handleExportDietPlan)
	handle("GET /api/diet/nutrients", authed, handleNutrientIntake)
	handle("POST /api/diet/nutrients", authed, handleLogNutrientIntake)
	handle("GET /api/diet/water", authed, handleWaterIntake)
	handle("POST /api/diet/water", authed, handleLogWaterIntake)
	handle("GET /api/diet/recommendations", authed, handleRecommendations)
	handle("POST /api/diet/recommendations", staff, handleAddRecommendation)
	handle("GET /api/diet/favorites", authed, handleFavoriteMeals)
	handle("POST /api/diet/favorites", authed, handleAddFavoriteMeal)
	handle("GET /api/diet/comments", authed, handleDietComments)
	handle("POST /api/diet/comments", authed, handlePostDietComment)

	// Trainer tools and progress
	handle("GET /api/trainer/members", staff, handleAssignedMembers)
	handle("GET /api/trainer/members/{id}/progress", staff, handleMemberProgressReports)
	handle("GET /api/trainer/session-logs", staff, handleSessionLogs)
	handle("POST /api/trainer/session-logs", staff, handleLogSession)
	handle("POST /api/trainer/routines", staff, handleSuggestRoutine)
	handle("GET /api/routines", authed, handleRoutines)
	handle("GET /api/trainer/sessions", staff, handleScheduledSessions)
	handle("POST /api/trainer/sessions", staff, handleScheduleSession)
	handle("POST /api/trainer/sessions/{id}/status", staff, handleUpdateSessionStatus)
	handle("GET /api/trainer/workload", staff, handleWorkload)
	handle("POST /api/trainer/availability", staff, handleSetAvailability)
	handle("GET /api/trainers/{id}/availability", authed, handleAvailability)
	handle("GET /api/progress", authed, handleProgress)
	handle("POST /api/progress", authed, handleLogProgress)
	handle("GET /api/progress/export", authed, handleExportProgress)

	// Chat
	handle("POST /api/chat/rooms/{room}/messages", authed, handleSendMessage)
	handle("GET /api/chat/rooms/{room}/stream", authed, handleRoomStream)
	handle("POST /api/chat/rooms/{room}/typing", authed, handleTyping)
	handle("POST /api/chat/messages/{id}/status", authed, handleMessageStatus)
	handle("POST /api/chat/messages/{id}/reactions", authed, handleReactToMessage)
	handle("POST /api/chat/messages/{id}/edit", authed, handleEditMessage)
	handle("DELETE /api/chat/messages/{id}", authed, handleDeleteMessage)
	handle("POST /api/chat/presence", authed, handleSetPresence)
	handle("GET /api/chat/presence/{user}", authed, handlePresence)

	// Admin
	handle("GET /api/admin/outbox", admin, handleAdminOutbox)
	handle("POST /api/admin/outbox/retry", admin, handleOutboxRetry)
	handle("POST /api/admin/outbox/{id}/abandon", admin, handleOutboxAbandon)
	handle("GET /api/admin/events", admin, handleEventLog)
	handle("GET /api/admin/perf", admin, handlePerf)
}
