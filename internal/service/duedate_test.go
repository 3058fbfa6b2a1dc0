package service

import (
	"testing"
	"time"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "   ", wantNil: true},
		{in: "2026-03-04", want: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{in: "2026-03-04T10:20:30Z", want: time.Date(2026, 3, 4, 10, 20, 30, 0, time.UTC)},
		{in: "2026-03-04T10:20:30.5+02:00", want: time.Date(2026, 3, 4, 8, 20, 30, 500000000, time.UTC)},
		{in: "2026-03-04T10:20:30", want: time.Date(2026, 3, 4, 10, 20, 30, 0, time.UTC)},
		{in: "04.03.2026", wantErr: true},
		{in: "tomorrow", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDueDate(tt.in)
		if tt.wantErr {
			if err != ErrInvalidDueDate {
				t.Errorf("parseDueDate(%q) err = %v, want ErrInvalidDueDate", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDueDate(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if tt.wantNil {
			if got != nil {
				t.Errorf("parseDueDate(%q) = %v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || !got.Equal(tt.want) {
			t.Errorf("parseDueDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
