package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/domain/member"
	"gymhub/internal/domain/notification"
)

// TestExecuteAddMember normalizes the email and rejects duplicates.
func TestExecuteAddMember(t *testing.T) {
	members := newFakeMembers()
	deps := AddMemberDeps{Members: members, GenerateID: seqIDs("mem"), Now: fixedNow}
	ctx := context.Background()

	m, err := ExecuteAddMember(ctx, AddMemberInput{Name: "  Jane Doe ", Email: "Jane@Example.COM"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "mem-1" || m.Name != "Jane Doe" || m.Email != "jane@example.com" || m.Status != member.StatusActive {
		t.Errorf("member = %+v", m)
	}
	if !m.JoinedAt.Equal(fixedTime) {
		t.Errorf("JoinedAt = %v", m.JoinedAt)
	}

	if _, err := ExecuteAddMember(ctx, AddMemberInput{Name: "Other", Email: "jane@example.com"}, deps); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

// TestExecuteAddMember_Invalid returns ErrInvalidInput for bad fields.
func TestExecuteAddMember_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input AddMemberInput
	}{
		{"missing name", AddMemberInput{Email: "a@example.com"}},
		{"bad email", AddMemberInput{Name: "A", Email: "not-an-email"}},
		{"long phone", AddMemberInput{Name: "A", Email: "a@example.com", Phone: strings.Repeat("1", 40)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExecuteAddMember(context.Background(), tt.input, AddMemberDeps{Members: newFakeMembers()})
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// TestExecuteBanMember bans once and reports unknown members.
func TestExecuteBanMember(t *testing.T) {
	members := newFakeMembers(member.Member{ID: "m1", Name: "A", Email: "a@example.com", Status: member.StatusActive})
	rec := &eventlog.Recorder{}
	deps := BanMemberDeps{Members: members, Events: rec}
	ctx := context.Background()

	m, err := ExecuteBanMember(ctx, "m1", "abusive behaviour", "admin", deps)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Banned || m.BanReason != "abusive behaviour" || !members.members["m1"].Banned {
		t.Errorf("member after ban = %+v", m)
	}
	if _, err := ExecuteBanMember(ctx, "m1", "again", "admin", deps); !errors.Is(err, member.ErrAlreadyBanned) {
		t.Errorf("error = %v, want ErrAlreadyBanned", err)
	}
	if _, err := ExecuteBanMember(ctx, "ghost", "x", "admin", deps); !errors.Is(err, member.ErrMemberNotFound) {
		t.Errorf("error = %v, want ErrMemberNotFound", err)
	}
	if got := rec.Entries(); len(got) != 1 || got[0].ActorID != "admin" {
		t.Errorf("events = %+v", got)
	}
}

// TestExecuteBulkImportMembers adds good rows and reports the rest.
func TestExecuteBulkImportMembers(t *testing.T) {
	members := newFakeMembers(member.Member{ID: "old", Name: "Existing", Email: "taken@example.com", Status: member.StatusActive})
	csvData := strings.Join([]string{
		"Name,Email,Phone",
		"Alice,alice@example.com,0811",
		",nobody@example.com,",
		"Bob,not-an-email,",
		"Carol,taken@example.com,",
		"Alice Again,ALICE@example.com,",
		"Dave,dave@example.com,",
	}, "\n")

	res, err := ExecuteBulkImportMembers(context.Background(), ImportMembersInput{Reader: strings.NewReader(csvData), ActorID: "admin"},
		ImportMembersDeps{Members: members, Concurrency: 2, GenerateID: seqIDs("imp"), Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 6 {
		t.Errorf("Total = %d, want 6", res.Total)
	}
	if res.Created != 2 {
		t.Errorf("Created = %d, want 2", res.Created)
	}
	if len(res.RowErrors) != 3 {
		t.Errorf("RowErrors = %+v, want 3", res.RowErrors)
	}
	failures := Failures(res.Results)
	if len(failures) != 1 || failures[0].ID != "taken@example.com" || !errors.Is(failures[0].Err, ErrEmailTaken) {
		t.Errorf("failures = %+v", failures)
	}
	if members.members["old"].Name != "Existing" {
		t.Error("existing member was modified")
	}
	if len(members.members) != 3 {
		t.Errorf("members = %d, want 3", len(members.members))
	}
}

// TestExecuteBulkImportMembers_Header requires name and email columns.
func TestExecuteBulkImportMembers_Header(t *testing.T) {
	_, err := ExecuteBulkImportMembers(context.Background(), ImportMembersInput{Reader: strings.NewReader("name,phone\nA,1\n")},
		ImportMembersDeps{Members: newFakeMembers()})
	if !errors.Is(err, ErrImportHeader) {
		t.Errorf("error = %v, want ErrImportHeader", err)
	}
}

// TestExecuteSendMessageToAll reaches every member and isolates failures.
func TestExecuteSendMessageToAll(t *testing.T) {
	members := newFakeMembers(
		member.Member{ID: "a", Name: "A", Email: "a@example.com"},
		member.Member{ID: "b", Name: "B"},
		member.Member{ID: "c", Name: "C", Email: "c@example.com", Banned: true},
		member.Member{ID: "d", Name: "D", Email: "d@example.com"},
	)
	notes := newFakeNotifications()
	notes.failOn = "d"
	sender := email.NewNoopSender()

	results, err := ExecuteSendMessageToAll(context.Background(), SendMessageToAllInput{Subject: "Closed Friday", Message: "The gym is **closed** on Friday."},
		SendMessageToAllDeps{Members: members, Notifications: notes, Email: sender, Concurrency: 3, Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	failures := Failures(results)
	if len(failures) != 1 || failures[0].ID != "d" {
		t.Errorf("failures = %+v", failures)
	}
	for _, id := range []string{"a", "b", "c"} {
		if len(notes.forMember(id)) != 1 {
			t.Errorf("member %s has no notification", id)
		}
	}
	sent := sender.Sent()
	if len(sent) != 2 {
		t.Fatalf("emails sent = %d, want 2", len(sent))
	}
	for _, s := range sent {
		if s.Subject != "Closed Friday" || !strings.Contains(s.HTML, "<strong>closed</strong>") {
			t.Errorf("email = %+v", s)
		}
	}

	if _, err := ExecuteSendMessageToAll(context.Background(), SendMessageToAllInput{Message: "  "}, SendMessageToAllDeps{Members: members}); !errors.Is(err, notification.ErrEmptyMessage) {
		t.Errorf("error = %v, want ErrEmptyMessage", err)
	}
}

// TestExecuteMarkNotificationRead is idempotent.
func TestExecuteMarkNotificationRead(t *testing.T) {
	notes := newFakeNotifications()
	ctx := context.Background()
	n, err := ExecuteSendNotification(ctx, "m1", "Your plan was updated", SendNotificationDeps{Notifications: notes, GenerateID: seqIDs("n"), Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	if n.Read {
		t.Error("new notification must be unread")
	}
	for i := 0; i < 2; i++ {
		got, err := ExecuteMarkNotificationRead(ctx, n.ID, notes)
		if err != nil {
			t.Fatalf("mark read #%d: %v", i+1, err)
		}
		if !got.Read {
			t.Errorf("mark read #%d: still unread", i+1)
		}
	}
	if _, err := ExecuteMarkNotificationRead(ctx, "missing", notes); !errors.Is(err, notification.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
