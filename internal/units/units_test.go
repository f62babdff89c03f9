package units

import "testing"

func TestDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725.5, "01:02:05"},
		{-5, "00:00"},
	}
	for _, tc := range cases {
		if got := Duration(tc.seconds); got != tc.want {
			t.Fatalf("Duration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestSize(t *testing.T) {
	if got := Size(512 * BytesPerMB); got != "512.00 MB" {
		t.Fatalf("unexpected size: %q", got)
	}
	if got := Size(BytesPerGB); got != "1024.00 MB" {
		t.Fatalf("exactly one GB should stay in MB, got %q", got)
	}
	if got := Size(3 * BytesPerGB / 2); got != "1.50 GB" {
		t.Fatalf("unexpected size: %q", got)
	}
	if got := SizeMB(2048); got != "2.00 GB" {
		t.Fatalf("unexpected size: %q", got)
	}
}

func TestResolutionAndPercent(t *testing.T) {
	if got := Resolution(1920, 1080); got != "1920x1080" {
		t.Fatalf("unexpected resolution: %q", got)
	}
	if got := Percent(1, 4); got != 25 {
		t.Fatalf("unexpected percent: %v", got)
	}
	if got := Percent(1, 0); got != 0 {
		t.Fatalf("expected zero percent for empty total, got %v", got)
	}
}
