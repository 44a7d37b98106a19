package feed

import (
	"encoding/json"
	"testing"
)

func TestMatchesOwner(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		owner   string
		want    bool
	}{
		{
			name:    "own insert",
			payload: `{"op":"insert","owner":"alice","id":"b1"}`,
			owner:   "alice",
			want:    true,
		},
		{
			name:    "own delete",
			payload: `{"op":"delete","owner":"alice","id":"b2"}`,
			owner:   "alice",
			want:    true,
		},
		{
			name:    "other owner is filtered",
			payload: `{"op":"insert","owner":"bob","id":"b3"}`,
			owner:   "alice",
			want:    false,
		},
		{
			name:    "unscoped event matches defensively",
			payload: `{"op":"update","id":"b4"}`,
			owner:   "alice",
			want:    true,
		},
		{
			name:    "malformed payload matches defensively",
			payload: `not json`,
			owner:   "alice",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesOwner([]byte(tt.payload), tt.owner); got != tt.want {
				t.Errorf("MatchesOwner(%q, %q) = %v, want %v", tt.payload, tt.owner, got, tt.want)
			}
		})
	}
}

func TestEventRoundTrip(t *testing.T) {
	ev := Event{Op: OpDelete, Owner: "alice", ID: "b7"}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if !MatchesOwner(data, "alice") {
		t.Error("published event should match its own owner")
	}
	if MatchesOwner(data, "bob") {
		t.Error("published event should not match a different owner")
	}
}
