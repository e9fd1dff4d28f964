package edl

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParseMissingClipsKey(t *testing.T) {
	payload := []byte(`{"type":"updateEdl","revision":3}`)
	_, _, err := Parse(payload)
	if !errors.Is(err, ErrNoClips) {
		t.Fatalf("expected ErrNoClips, got %v", err)
	}
}

func TestParseMalformedPayload(t *testing.T) {
	payload := []byte(`{"clips":[{"id":"a"`)
	if _, _, err := Parse(payload); err == nil {
		t.Fatal("expected error for broken payload")
	}
}

func TestParseRevisionDefaultsToZero(t *testing.T) {
	payload := []byte(`{"clips":[]}`)
	clips, revision, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revision != 0 {
		t.Errorf("revision = %d, want 0", revision)
	}
	if len(clips) != 0 {
		t.Errorf("clips = %d, want 0", len(clips))
	}
}

func TestParseValidPayload(t *testing.T) {
	payload := []byte(`{
		"type": "updateEdl",
		"revision": 7,
		"clips": [{
			"id": "c1",
			"startSec": 1.0,
			"endSec": 3.0,
			"originalStartSec": 10.0,
			"originalEndSec": 12.0,
			"speaker": "S1",
			"type": "speech",
			"segments": [
				{"type": "word", "startSec": 0.0, "endSec": 0.5, "text": "hello"},
				{"type": "spacer", "startSec": 0.5, "endSec": 2.0}
			]
		}]
	}`)

	clips, revision, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revision != 7 {
		t.Errorf("revision = %d, want 7", revision)
	}
	if len(clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(clips))
	}

	clip := clips[0]
	if clip.ID != "c1" || clip.Speaker != "S1" || clip.Type != "speech" {
		t.Errorf("clip metadata = %+v", clip)
	}
	if !clip.HasOriginal() || clip.OriginalStartSec != 10.0 || clip.OriginalEndSec != 12.0 {
		t.Errorf("clip original range = %v..%v", clip.OriginalStartSec, clip.OriginalEndSec)
	}
	if len(clip.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(clip.Segments))
	}
	word := clip.Segments[0]
	if word.Type != "word" || word.Text != "hello" || word.Dur != 0.5 {
		t.Errorf("word segment = %+v", word)
	}
	if word.HasOriginal() {
		t.Error("word segment should not carry an original range")
	}
}

func TestParseDropsInvalidEntries(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantClips int
	}{
		{
			name:      "zero duration clip dropped",
			payload:   `{"clips":[{"id":"a","startSec":5,"endSec":5,"segments":[{"type":"word","startSec":0,"endSec":1}]}]}`,
			wantClips: 0,
		},
		{
			name:      "clip with only invalid segments dropped",
			payload:   `{"clips":[{"id":"a","startSec":0,"endSec":5,"segments":[{"type":"word","startSec":1,"endSec":1}]}]}`,
			wantClips: 0,
		},
		{
			name:      "segment without times dropped",
			payload:   `{"clips":[{"id":"a","startSec":0,"endSec":5,"segments":[{"type":"word"},{"type":"word","startSec":0,"endSec":1}]}]}`,
			wantClips: 1,
		},
		{
			name:      "valid clip survives invalid sibling",
			payload:   `{"clips":[{"id":"bad","startSec":2,"endSec":2,"segments":[]},{"id":"good","startSec":0,"endSec":1,"segments":[{"type":"word","startSec":0,"endSec":1}]}]}`,
			wantClips: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clips, _, err := Parse([]byte(tt.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(clips) != tt.wantClips {
				t.Errorf("clips = %d, want %d", len(clips), tt.wantClips)
			}
		})
	}
}

func TestParseSanitizesTimes(t *testing.T) {
	payload := []byte(`{"clips":[{
		"id":"a",
		"startSec":-5,
		"endSec":100000,
		"segments":[{"type":"word","startSec":0,"endSec":2}]
	}]}`)

	clips, _, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(clips))
	}
	if clips[0].StartSec != 0 {
		t.Errorf("negative start not clamped: %v", clips[0].StartSec)
	}
	if clips[0].EndSec != MaxTime {
		t.Errorf("oversized end not clamped: %v", clips[0].EndSec)
	}
}

func TestParseInvalidOriginalRangeDiscarded(t *testing.T) {
	payload := []byte(`{"clips":[{
		"id":"a",
		"startSec":0,
		"endSec":2,
		"originalStartSec":5,
		"originalEndSec":5,
		"segments":[{"type":"word","startSec":0,"endSec":2,"originalStartSec":3,"originalEndSec":3}]
	}]}`)

	clips, _, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clips[0].HasOriginal() {
		t.Error("zero-length clip original range should be discarded")
	}
	if clips[0].Segments[0].HasOriginal() {
		t.Error("zero-length segment original range should be discarded")
	}
}

func TestParseIdempotent(t *testing.T) {
	payload := []byte(`{"revision":4,"clips":[
		{"id":"a","startSec":0,"endSec":2,"segments":[{"type":"word","startSec":0,"endSec":2,"text":"x"}]},
		{"id":"b","startSec":2,"endSec":4,"originalStartSec":10,"originalEndSec":12,"segments":[{"type":"spacer","startSec":0,"endSec":2}]}
	]}`)

	first, rev1, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, rev2, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rev1 != rev2 {
		t.Errorf("revisions differ: %d vs %d", rev1, rev2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same payload twice produced different clips")
	}
	if !reflect.DeepEqual(Flatten(first), Flatten(second)) {
		t.Error("flattening the same clips twice produced different lists")
	}
}

func TestSanitizeTime(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		fallback float64
		want     float64
	}{
		{"nan uses fallback", math.NaN(), 2.5, 2.5},
		{"inf uses fallback", math.Inf(1), 1.0, 1.0},
		{"negative clamps to zero", -3, 0, 0},
		{"beyond 24h clamps", MaxTime + 100, 0, MaxTime},
		{"normal passes through", 12.5, 0, 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTime(tt.v, tt.fallback); got != tt.want {
				t.Errorf("SanitizeTime(%v, %v) = %v, want %v", tt.v, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestSanitizeDuration(t *testing.T) {
	if got := SanitizeDuration(MinDuration / 2); got != 0 {
		t.Errorf("sub-epsilon duration = %v, want 0", got)
	}
	if got := SanitizeDuration(math.NaN()); got != 0 {
		t.Errorf("NaN duration = %v, want 0", got)
	}
	if got := SanitizeDuration(1.5); got != 1.5 {
		t.Errorf("valid duration = %v, want 1.5", got)
	}
}

func TestCount(t *testing.T) {
	clips := []Clip{
		{Segments: []Segment{{Type: "word"}, {Type: "spacer"}, {Type: "word"}}},
		{Segments: []Segment{{Type: "spacer"}}},
	}
	st := Count(clips)
	if st.Words != 2 || st.Spacers != 2 || st.Total != 4 {
		t.Errorf("Count = %+v", st)
	}
}
