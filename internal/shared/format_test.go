package shared

import (
	"errors"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tt := []struct {
		name string
		size int64
		want string
	}{
		{name: "zero", size: 0, want: "0 B"},
		{name: "negative", size: -5, want: "0 B"},
		{name: "bytes", size: 512, want: "512 B"},
		{name: "megabytes", size: 12_000_000, want: "12 MB"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatBytes(tc.size); got != tc.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tc.size, got, tc.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tt := []struct {
		seconds float32
		want    string
	}{
		{0, "0:00"},
		{59.6, "1:00"},
		{185, "3:05"},
		{3725, "1:02:05"},
	}

	for _, tc := range tt {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tt := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Road Trip", want: "Road Trip"},
		{name: "separators", in: "AC/DC: Best?", want: "AC_DC_ Best_"},
		{name: "blank", in: "   ", want: "playlist"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFilename(tc.in); got != tc.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestOpenBrowser(t *testing.T) {
	t.Run("rejects non http urls", func(t *testing.T) {
		for _, target := range []string{"", "file:///etc/passwd", "javascript:alert(1)"} {
			if err := OpenBrowser(target); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("OpenBrowser(%q) error = %v, want ErrInvalidArgument", target, err)
			}
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		orig := getRuntime
		defer func() { getRuntime = orig }()
		getRuntime = func() string { return "plan9" }

		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
