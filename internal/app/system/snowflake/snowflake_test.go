package snowflake

import (
	"testing"
	"time"
)

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"175928847299117063", true},
		{"80351110224678912", true},
		{"", false},
		{"123", false},
		{"17592884729911706x", false},
		{" 175928847299117063", false},
		{"-175928847299117063", false},
		{"123456789012345678901", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.id); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCreatedAt(t *testing.T) {
	// Documented example from the Discord API reference.
	ts, ok := CreatedAt("175928847299117063")
	if !ok {
		t.Fatal("expected a timestamp")
	}
	want := time.Date(2016, time.April, 30, 11, 18, 25, 796000000, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", ts, want)
	}

	if _, ok := CreatedAt("nope"); ok {
		t.Error("expected no timestamp for an invalid id")
	}
}
