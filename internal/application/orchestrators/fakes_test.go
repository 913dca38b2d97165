package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/realtime"
	"gymhub/internal/adapters/storage"
	memberStore "gymhub/internal/adapters/storage/member"
	"gymhub/internal/domain/account"
	"gymhub/internal/domain/attendance"
	"gymhub/internal/domain/badge"
	"gymhub/internal/domain/member"
	"gymhub/internal/domain/notification"
	domainOutbox "gymhub/internal/domain/outbox"
	"gymhub/internal/domain/payment"
)

var fixedTime = time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func seqIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var errBoom = errors.New("boom")

// --- attendance ---

type fakeAttendance struct {
	mu          sync.Mutex
	records     map[string]attendance.Record
	corrections map[string]attendance.Correction
	writes      int
	getErr      error
	saveErr     error
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{records: map[string]attendance.Record{}, corrections: map[string]attendance.Correction{}}
}

func (f *fakeAttendance) Get(_ context.Context, memberID, date string) (attendance.Record, error) {
	if f.getErr != nil {
		return attendance.Record{}, f.getErr
	}
	r, ok := f.records[attendance.Key(memberID, date)]
	if !ok {
		return attendance.Record{}, fmt.Errorf("attendance record %w", storage.ErrNotFound)
	}
	return r, nil
}

func (f *fakeAttendance) Save(_ context.Context, r attendance.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.writes++
	f.records[r.Key()] = r
	return nil
}

func (f *fakeAttendance) SaveBatch(_ context.Context, recs []attendance.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, r := range recs {
		f.writes++
		f.records[r.Key()] = r
	}
	return nil
}

func (f *fakeAttendance) ListByMemberID(_ context.Context, memberID string) ([]attendance.Record, error) {
	return f.ListByMemberIDAndDateRange(context.Background(), memberID, "", "9999-12-31")
}

func (f *fakeAttendance) ListByMemberIDAndDateRange(_ context.Context, memberID, start, end string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []attendance.Record
	for _, r := range f.records {
		if r.MemberID == memberID && r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeAttendance) SaveCorrection(_ context.Context, c attendance.Correction) error {
	f.writes++
	f.corrections[c.ID] = c
	return nil
}

func (f *fakeAttendance) GetCorrection(_ context.Context, id string) (attendance.Correction, error) {
	c, ok := f.corrections[id]
	if !ok {
		return attendance.Correction{}, fmt.Errorf("correction %w", storage.ErrNotFound)
	}
	return c, nil
}

func (f *fakeAttendance) ResolveCorrection(_ context.Context, c attendance.Correction, rec *attendance.Record) error {
	f.writes++
	f.corrections[c.ID] = c
	if rec != nil {
		f.writes++
		f.records[rec.Key()] = *rec
	}
	return nil
}

// --- badges ---

type fakeBadges struct{ saved []badge.Badge }

func (f *fakeBadges) Save(_ context.Context, b badge.Badge) error {
	f.saved = append(f.saved, b)
	return nil
}

func (f *fakeBadges) ListByMemberID(_ context.Context, memberID string) ([]badge.Badge, error) {
	var out []badge.Badge
	for _, b := range f.saved {
		if b.MemberID == memberID {
			out = append(out, b)
		}
	}
	return out, nil
}

// --- members ---

type fakeMembers struct {
	mu      sync.Mutex
	members map[string]member.Member
}

func newFakeMembers(ms ...member.Member) *fakeMembers {
	f := &fakeMembers{members: map[string]member.Member{}}
	for _, m := range ms {
		f.members[m.ID] = m
	}
	return f
}

func (f *fakeMembers) GetByID(_ context.Context, id string) (member.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return member.Member{}, fmt.Errorf("member %w", storage.ErrNotFound)
	}
	return m, nil
}

func (f *fakeMembers) GetByEmail(_ context.Context, addr string) (member.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if strings.EqualFold(m.Email, addr) {
			return m, nil
		}
	}
	return member.Member{}, fmt.Errorf("member %w", storage.ErrNotFound)
}

func (f *fakeMembers) Save(_ context.Context, m member.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[m.ID] = m
	return nil
}

func (f *fakeMembers) List(_ context.Context, _ memberStore.ListFilter) ([]member.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]member.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- notifications ---

type fakeNotifications struct {
	mu     sync.Mutex
	saved  map[string]notification.Notification
	failOn string // member ID whose save fails
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{saved: map[string]notification.Notification{}}
}

func (f *fakeNotifications) Save(_ context.Context, n notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.MemberID == f.failOn {
		return errBoom
	}
	f.saved[n.ID] = n
	return nil
}

func (f *fakeNotifications) GetByID(_ context.Context, id string) (notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.saved[id]
	if !ok {
		return notification.Notification{}, fmt.Errorf("notification %w", storage.ErrNotFound)
	}
	return n, nil
}

func (f *fakeNotifications) forMember(id string) []notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Notification
	for _, n := range f.saved {
		if n.MemberID == id {
			out = append(out, n)
		}
	}
	return out
}

// --- email / outbox ---

type failingSender struct{}

func (failingSender) Send(context.Context, email.SendRequest) (email.SendResult, error) {
	return email.SendResult{}, errBoom
}

type fakeOutbox struct {
	mu      sync.Mutex
	entries map[string]domainOutbox.Entry
}

func newFakeOutbox() *fakeOutbox { return &fakeOutbox{entries: map[string]domainOutbox.Entry{}} }

func (f *fakeOutbox) Save(_ context.Context, e domainOutbox.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[e.ID] = e
	return nil
}

func (f *fakeOutbox) ListPending(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domainOutbox.Entry
	for _, e := range f.entries {
		if e.Status == domainOutbox.StatusPending || e.Status == domainOutbox.StatusRetrying {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- accounts ---

type fakeAccounts struct {
	accounts map[string]account.Account
	saves    int
}

func newFakeAccounts(as ...account.Account) *fakeAccounts {
	f := &fakeAccounts{accounts: map[string]account.Account{}}
	for _, a := range as {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return account.Account{}, fmt.Errorf("account %w", storage.ErrNotFound)
	}
	return a, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, addr string) (account.Account, error) {
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, addr) {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account %w", storage.ErrNotFound)
}

func (f *fakeAccounts) GetByGoogleSubject(_ context.Context, sub string) (account.Account, error) {
	for _, a := range f.accounts {
		if sub != "" && a.GoogleSubject == sub {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account %w", storage.ErrNotFound)
}

func (f *fakeAccounts) Save(_ context.Context, a account.Account) error {
	f.saves++
	f.accounts[a.ID] = a
	return nil
}

// --- payments ---

type fakePayments struct {
	payments map[string]payment.Payment
	bills    []payment.Bill
	plans    []payment.InstallmentPlan
}

func newFakePayments(ps ...payment.Payment) *fakePayments {
	f := &fakePayments{payments: map[string]payment.Payment{}}
	for _, p := range ps {
		f.payments[p.ID] = p
	}
	return f
}

func (f *fakePayments) GetByID(_ context.Context, id string) (payment.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return payment.Payment{}, fmt.Errorf("payment %w", storage.ErrNotFound)
	}
	return p, nil
}

func (f *fakePayments) Save(_ context.Context, p payment.Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePayments) SaveBill(_ context.Context, b payment.Bill) error {
	f.bills = append(f.bills, b)
	return nil
}

func (f *fakePayments) SavePlan(_ context.Context, p payment.InstallmentPlan) error {
	f.plans = append(f.plans, p)
	return nil
}

// --- realtime ---

type recordingHub struct{ events []realtime.Event }

func (h *recordingHub) Publish(e realtime.Event) { h.events = append(h.events, e) }
