package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/storage"
	memberStore "gymhub/internal/adapters/storage/member"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/member"
	"gymhub/internal/domain/notification"
)

// ErrEmailTaken is returned when a member or account already uses an email address.
var ErrEmailTaken = errors.New("email is already registered")

// MemberStore is the member persistence surface used by admin commands.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	GetByEmail(ctx context.Context, email string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// AddMemberInput carries a new member's details.
type AddMemberInput struct {
	Name      string `validate:"required,max=100"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"max=32"`
	TrainerID string
	ActorID   string
}

// AddMemberDeps holds dependencies for AddMember.
type AddMemberDeps struct {
	Members    MemberStore
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

// ExecuteAddMember registers an active member.
// PRE: email is not already registered
// POST: member stored with status active and a fresh ID
func ExecuteAddMember(ctx context.Context, input AddMemberInput, deps AddMemberDeps) (member.Member, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateInput(input); err != nil {
		return member.Member{}, err
	}
	return addMember(ctx, input, deps)
}

func addMember(ctx context.Context, input AddMemberInput, deps AddMemberDeps) (member.Member, error) {
	if _, err := deps.Members.GetByEmail(ctx, input.Email); err == nil {
		return member.Member{}, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return member.Member{}, fmt.Errorf("failed to check email: %w", err)
	}

	m := member.Member{
		ID:        newID(deps.GenerateID),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     strings.TrimSpace(input.Phone),
		Status:    member.StatusActive,
		TrainerID: input.TrainerID,
		JoinedAt:  nowFrom(deps.Now),
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}
	if err := deps.Members.Save(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("failed to save member: %w", err)
	}
	slog.Info("member_event", "event", "member_added", "member_id", m.ID)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventMemberAdded, "member_id", m.ID).WithActor(input.ActorID))
	return m, nil
}

// BanMemberDeps holds dependencies for BanMember.
type BanMemberDeps struct {
	Members MemberStore
	Events  eventlog.Logger
}

// ExecuteBanMember bans a member with a reason.
// PRE: member exists and is not already banned
// POST: member.Banned is true and BanReason set
func ExecuteBanMember(ctx context.Context, memberID, reason, actorID string, deps BanMemberDeps) (member.Member, error) {
	m, err := deps.Members.GetByID(ctx, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return member.Member{}, member.ErrMemberNotFound
	}
	if err != nil {
		return member.Member{}, fmt.Errorf("failed to load member: %w", err)
	}
	if err := m.Ban(reason); err != nil {
		return member.Member{}, err
	}
	if err := deps.Members.Save(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("failed to save member: %w", err)
	}
	slog.Info("member_event", "event", "member_banned", "member_id", m.ID)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventMemberBanned,
		"member_id", m.ID, "reason", reason).WithActor(actorID).WithSeverity(domainEvent.SeverityWarning))
	return m, nil
}

// SendMessageToAllInput carries a broadcast. Message is markdown.
type SendMessageToAllInput struct {
	Subject string
	Message string
	ActorID string
}

// SendMessageToAllDeps holds dependencies for SendMessageToAll.
type SendMessageToAllDeps struct {
	Members       MemberLister
	Notifications NotificationSaver
	Email         EmailSender // optional
	Outbox        OutboxSaver // optional
	Concurrency   int
	GenerateID    func() string
	Now           func() time.Time
	Events        eventlog.Logger
}

// ExecuteSendMessageToAll posts a notification to every member and emails a
// rendered copy to those with an address. Banned members are included.
// PRE: Message non-empty
// POST: one ItemResult per member
func ExecuteSendMessageToAll(ctx context.Context, input SendMessageToAllInput, deps SendMessageToAllDeps) ([]ItemResult, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, notification.ErrEmptyMessage
	}
	subject := input.Subject
	if subject == "" {
		subject = "Message from the gym"
	}
	members, err := deps.Members.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	now := nowFrom(deps.Now)
	html := email.RenderMarkdown(input.Message)
	results := fanOut(ctx, ids, deps.Concurrency, func(ctx context.Context, i int, id string) error {
		n := notification.Notification{ID: newID(deps.GenerateID), MemberID: id, Message: input.Message, CreatedAt: now}
		if err := n.Validate(); err != nil {
			return err
		}
		if err := deps.Notifications.Save(ctx, n); err != nil {
			return fmt.Errorf("failed to save notification: %w", err)
		}
		if members[i].Email == "" {
			return nil
		}
		return deliverEmail(ctx, deps.Email, deps.Outbox, email.SendRequest{To: []string{members[i].Email}, Subject: subject, HTML: html}, now)
	})

	failed := len(Failures(results))
	slog.Info("member_event", "event", "broadcast_sent", "recipients", len(ids), "failed", failed)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventBroadcastSent,
		"recipients", len(ids), "failed", failed).WithActor(input.ActorID))
	return results, nil
}
