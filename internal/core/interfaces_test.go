package core

import (
	"encoding/json"
	"testing"
)

func TestClassRefNormalizesStringAndNumber(t *testing.T) {
	tests := []struct {
		in   string
		want ClassRef
	}{
		{`{"classId":"5"}`, "5"},
		{`{"classId":5}`, "5"},
		{`{"classId":42}`, "42"},
		{`{"classId":"live-9"}`, "live-9"},
	}
	for _, tt := range tests {
		var p NavPayload
		if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if p.ClassID != tt.want {
			t.Errorf("classId from %s = %q, want %q", tt.in, p.ClassID, tt.want)
		}
	}
}

func TestClassRefMarshalsAsString(t *testing.T) {
	b, err := json.Marshal(NavPayload{ClassID: "5", Index: 2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"classId":"5","index":2}` {
		t.Errorf("marshal = %s", b)
	}
}

func TestClassRefRejectsObjects(t *testing.T) {
	var p NavPayload
	if err := json.Unmarshal([]byte(`{"classId":{"x":1}}`), &p); err == nil {
		t.Error("object classId accepted")
	}
}

func TestMovePayloadRoundTrip(t *testing.T) {
	in := `{"classId":12,"move":{"from":"e2","to":"e4"},"fen":"f","turn":"b","fromIndex":0,"newMoves":["e4"]}`
	var p MovePayload
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ClassID != "12" || p.FEN != "f" || p.Turn != "b" {
		t.Errorf("payload = %+v", p)
	}
	if p.FromIndex == nil || *p.FromIndex != 0 {
		t.Errorf("fromIndex = %v, want 0", p.FromIndex)
	}
	if len(p.NewMoves) != 1 {
		t.Errorf("newMoves = %v", p.NewMoves)
	}
}
