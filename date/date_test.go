package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	got := New(2024, time.February, 30)
	if want := New(2024, time.March, 1); got != want {
		t.Errorf("New(2024, 2, 30) = %v, want %v", got, want)
	}
}

func TestSub(t *testing.T) {
	tests := []struct {
		name     string
		from, to Date
		want     int
	}{
		{"same day", New(2024, 1, 1), New(2024, 1, 1), 0},
		{"one year non leap", New(2023, 1, 1), New(2024, 1, 1), 365},
		{"one year leap", New(2024, 1, 1), New(2025, 1, 1), 366},
		{"Jan 1 to Dec 31", New(2023, 1, 1), New(2023, 12, 31), 364},
		{"reversed", New(2024, 1, 10), New(2024, 1, 1), -9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.to.Sub(tt.from); got != tt.want {
				t.Errorf("%v.Sub(%v) = %d, want %d", tt.to, tt.from, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	today := Today()
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, 7, 1)},
		{in: "2025-7-1", want: New(2025, 7, 1)},
		{in: " 2025-7-1 ", want: New(2025, 7, 1)},
		{in: "-10d", want: today.Add(-10)},
		{in: "+2w", want: today.Add(14)},
		{in: "-15y", want: New(today.Year()-15, today.Month(), today.Day())},
		{in: "2025/07/01", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	var got struct {
		On Date `json:"on"`
	}
	if err := json.Unmarshal([]byte(`{"on":"2024-3-5"}`), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if want := New(2024, time.March, 5); got.On != want {
		t.Errorf("json.Unmarshal() = %v, want %v", got.On, want)
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(b) != `{"on":"2024-03-05"}` {
		t.Errorf("json.Marshal() = %s", b)
	}
}

func TestRange(t *testing.T) {
	r := YearsEndingOn(New(2025, 1, 1), 15)
	if r.Days() != 365*15 {
		t.Errorf("YearsEndingOn(...,15).Days() = %d, want %d", r.Days(), 365*15)
	}
	if !r.Contains(r.From) || !r.Contains(r.To) {
		t.Errorf("Range.Contains() must include its boundaries")
	}
	if r.Contains(r.To.Add(1)) || r.Contains(r.From.Add(-1)) {
		t.Errorf("Range.Contains() must exclude days outside the range")
	}
	if !r.IsValid() {
		t.Errorf("Range.IsValid() = false, want true")
	}
	if (Range{From: r.To, To: r.From}).IsValid() {
		t.Errorf("reversed Range.IsValid() = true, want false")
	}
}
