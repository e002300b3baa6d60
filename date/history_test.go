package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	h.Append(d1, "overwritten")
	if v, ok := h.Get(d1); !ok || v != "overwritten" {
		t.Errorf("Get(d1) = %q, %v want %q, true", v, ok, "overwritten")
	}
	if day, v := h.Latest(); day != d1 || v != "overwritten" {
		t.Errorf("Latest() = %v, %q", day, v)
	}
}

func TestValues(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 3), 3).Append(New(2024, 1, 1), 1).Append(New(2024, 1, 2), 2)

	var got []float64
	for _, v := range h.Values() {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("Values() = %v, want [1 2 3]", got)
	}
}
