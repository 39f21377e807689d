package textutil

import "testing"

func TestHeaderKey(t *testing.T) {
	tests := map[string]string{
		"Song Name":      "song_name",
		"  time  ":       "time",
		"song_name":      "song_name",
		"Time (HH:MM)":   "time_hh_mm",
		"LocalTimestamp": "localtimestamp",
		"--":             "",
		"Score / 10":     "score_10",
	}
	for input, want := range tests {
		if got := HeaderKey(input); got != want {
			t.Errorf("HeaderKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"HR":       "HR",
		"a/b:c":    "a-b-c",
		"../etc":   "-etc",
		" what?  ": "what",
		"":         "",
	}
	for input, want := range tests {
		if got := SanitizeFileName(input); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestClosestMatch(t *testing.T) {
	headers := []string{"Start Time", "Song", "Score", "Notes"}

	got, ok := ClosestMatch("time", headers)
	if !ok || got != "Start Time" {
		t.Fatalf("ClosestMatch(time) = %q, %v", got, ok)
	}
	got, ok = ClosestMatch("song_name", headers)
	if !ok || got != "Song" {
		t.Fatalf("ClosestMatch(song_name) = %q, %v", got, ok)
	}
	if _, ok := ClosestMatch("zzz", headers); ok {
		t.Fatal("expected no suggestion for unrelated target")
	}
}

func TestCosineSimilarityNil(t *testing.T) {
	if got := CosineSimilarity(nil, NewFingerprint("time")); got != 0 {
		t.Fatalf("expected 0 for nil fingerprint, got %v", got)
	}
	if got := CosineSimilarity(NewFingerprint("time"), NewFingerprint("TIME")); got < 0.999 {
		t.Fatalf("expected identical keys to match, got %v", got)
	}
}

func TestTitle(t *testing.T) {
	if got := Title("heart  rate"); got != "Heart Rate" {
		t.Fatalf("Title = %q", got)
	}
	if got := Title("PPG green"); got != "PPG Green" {
		t.Fatalf("Title = %q", got)
	}
}

func TestFirstNonBlank(t *testing.T) {
	if got := FirstNonBlank("  ", "", "bpm", "Value"); got != "bpm" {
		t.Fatalf("FirstNonBlank = %q", got)
	}
	if got := FirstNonBlank(" ", ""); got != "" {
		t.Fatalf("FirstNonBlank of blanks = %q", got)
	}
}
