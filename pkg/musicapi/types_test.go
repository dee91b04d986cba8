package musicapi

import "testing"

func TestModelVersionValid(t *testing.T) {
	for _, m := range []ModelVersion{ModelV3_5, ModelV4, ModelV4_5, ModelV4_5Plus, ModelV5} {
		if !m.Valid() {
			t.Fatalf("%s should be valid", m)
		}
	}
	for _, m := range []ModelVersion{"", "V2", "v4", "chirp-v4", "V4_5plus"} {
		if m.Valid() {
			t.Fatalf("%q should be invalid", m)
		}
	}
}

func TestJoinStatusErrorWins(t *testing.T) {
	joined := JoinStatus([]AudioInfo{
		{Status: StatusComplete},
		{Status: StatusError},
		{Status: StatusGenerating},
	})
	if joined != StatusError {
		t.Fatalf("expected error, got %s", joined)
	}
}

func TestJoinStatusLeastAdvanced(t *testing.T) {
	cases := []struct {
		statuses []Status
		want     Status
	}{
		{[]Status{StatusComplete, StatusComplete}, StatusComplete},
		{[]Status{StatusComplete, StatusStreaming}, StatusStreaming},
		{[]Status{StatusStreaming, StatusQueued}, StatusQueued},
		{[]Status{StatusGenerating, StatusSubmitted}, StatusSubmitted},
		{nil, StatusSubmitted},
	}
	for i, tc := range cases {
		infos := make([]AudioInfo, len(tc.statuses))
		for j, s := range tc.statuses {
			infos[j] = AudioInfo{Status: s}
		}
		if got := JoinStatus(infos); got != tc.want {
			t.Fatalf("case %d: expected %s, got %s", i, tc.want, got)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusComplete.Terminal() || !StatusError.Terminal() {
		t.Fatal("complete and error are terminal")
	}
	for _, s := range []Status{StatusSubmitted, StatusQueued, StatusGenerating, StatusStreaming} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}
