package chat_test

import (
	"testing"
	"time"

	"gymhub/internal/domain/chat"
)

func TestMessage_ToggleReaction(t *testing.T) {
	var m chat.Message
	if !m.ToggleReaction("👍", "u1") {
		t.Fatal("first toggle should add")
	}
	if !m.ToggleReaction("👍", "u2") {
		t.Fatal("second user should add")
	}
	if m.ToggleReaction("👍", "u1") {
		t.Fatal("repeat toggle should remove")
	}
	if got := m.Reactions["👍"]; len(got) != 1 || got[0] != "u2" {
		t.Errorf("reactions = %v", got)
	}
	m.ToggleReaction("👍", "u2")
	if _, ok := m.Reactions["👍"]; ok {
		t.Error("empty emoji set should be removed")
	}
}

func TestMessage_EditAndDelete(t *testing.T) {
	now := time.Now()
	m := chat.Message{RoomID: "r1", SenderID: "u1", Content: "hi", Type: chat.TypeText, Status: chat.StatusSent}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := m.Edit("hello", now); err != nil || !m.Edited || m.Content != "hello" {
		t.Fatalf("Edit: %v %+v", err, m)
	}
	m.SoftDelete(now)
	if !m.Deleted || m.Content != "hello" {
		t.Errorf("SoftDelete: %+v", m)
	}
	if err := m.Edit("again", now); err != chat.ErrDeleted {
		t.Errorf("Edit deleted = %v", err)
	}
}

func TestMessage_Validate(t *testing.T) {
	m := chat.Message{RoomID: "r1", SenderID: "u1", Content: "hi", Type: "video", Status: chat.StatusSent}
	if err := m.Validate(); err != chat.ErrInvalidType {
		t.Errorf("Validate(video) = %v", err)
	}
	if chat.TypingKey("r1", "u1") != "r1_u1" {
		t.Error("TypingKey")
	}
}
