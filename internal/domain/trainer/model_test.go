package trainer_test

import (
	"testing"
	"time"

	"gymhub/internal/domain/trainer"
)

func TestScheduledSession_SetStatus(t *testing.T) {
	s := trainer.ScheduledSession{TrainerID: "t1", MemberID: "m1", StartsAt: time.Now(), Type: trainer.TypePersonal, Status: trainer.StatusScheduled}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := s.SetStatus("postponed"); err != trainer.ErrInvalidStatus {
		t.Errorf("SetStatus(postponed) = %v", err)
	}
	if err := s.SetStatus(trainer.StatusCompleted); err != nil {
		t.Fatalf("SetStatus(completed): %v", err)
	}
	if err := s.SetStatus(trainer.StatusCanceled); err != trainer.ErrSessionClosed {
		t.Errorf("SetStatus after completion = %v, want ErrSessionClosed", err)
	}
}

func TestScheduledSession_Validate(t *testing.T) {
	class := trainer.ScheduledSession{TrainerID: "t1", StartsAt: time.Now(), Type: trainer.TypeClass, Status: trainer.StatusScheduled}
	if err := class.Validate(); err != nil {
		t.Errorf("class without member should be valid: %v", err)
	}
	personal := class
	personal.Type = trainer.TypePersonal
	if err := personal.Validate(); err != trainer.ErrEmptyMemberID {
		t.Errorf("personal without member = %v", err)
	}
	personal.Type = "group"
	personal.MemberID = "m1"
	if err := personal.Validate(); err != trainer.ErrInvalidType {
		t.Errorf("unknown type = %v", err)
	}
}

func TestAvailability_Validate(t *testing.T) {
	tests := []struct {
		name    string
		slot    trainer.Slot
		wantErr bool
	}{
		{"valid", trainer.Slot{Day: "Monday", From: "08:00", To: "12:00"}, false},
		{"reversed", trainer.Slot{Day: "Monday", From: "12:00", To: "08:00"}, true},
		{"bad day", trainer.Slot{Day: "Funday", From: "08:00", To: "12:00"}, true},
		{"bad time", trainer.Slot{Day: "Friday", From: "8am", To: "12:00"}, true},
	}
	for _, tt := range tests {
		a := trainer.Availability{TrainerID: "t1", Slots: []trainer.Slot{tt.slot}}
		if err := a.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
