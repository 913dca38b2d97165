package eventlog_test

import (
	"testing"

	"gymhub/internal/domain/eventlog"
)

func TestNew_Fields(t *testing.T) {
	e := eventlog.New(eventlog.EventCheckRecorded, "member_id", "m1", "late", true, "dangling")
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Fatalf("entry not stamped: %+v", e)
	}
	if len(e.Fields) != 2 || e.Fields["member_id"] != "m1" || e.Fields["late"] != true {
		t.Errorf("fields = %v", e.Fields)
	}
	js, err := e.FieldsJSON()
	if err != nil {
		t.Fatalf("FieldsJSON: %v", err)
	}
	if js != `{"late":true,"member_id":"m1"}` {
		t.Errorf("FieldsJSON = %s", js)
	}
}

func TestEntry_Validate(t *testing.T) {
	e := eventlog.New("")
	if err := e.Validate(); err != eventlog.ErrEmptyEvent {
		t.Errorf("Validate() = %v", err)
	}
	if js, _ := e.FieldsJSON(); js != "{}" {
		t.Errorf("empty FieldsJSON = %s", js)
	}
}
