package sanitize

import "testing"

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Your order is ready", "Your order is ready"},
		{"tags removed", "<b>Ready</b> for pickup", "Ready for pickup"},
		{"script removed", "<script>alert(1)</script>hi", "alert(1)hi"},
		{"spaces collapsed", "a  <br>   b", "a b"},
		{"leading trailing trimmed", "  <p>x</p>  ", "x"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.input); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"shorter than max", "abc", 5, "abc"},
		{"exactly max", "abcde", 5, "abcde"},
		{"longer than max", "abcdef", 5, "abcde"},
		{"multibyte runes", "héllo wörld", 6, "héllo "},
		{"zero max passes through", "abc", 0, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
