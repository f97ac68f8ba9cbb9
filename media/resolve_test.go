package media

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	side := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	emb := time.Date(2019, 5, 1, 10, 0, 0, 0, time.UTC)
	var none time.Time

	tests := []struct {
		name        string
		sidecar     time.Time
		embedded    time.Time
		supportsTag bool
		want        ResolvedDate
	}{
		{"sidecar only, tag supported", side, none, true, ResolvedDate{side, SourceSidecar, true}},
		{"sidecar only, tag unsupported", side, none, false, ResolvedDate{side, SourceSidecar, false}},
		{"both, tag supported", side, emb, true, ResolvedDate{side, SourceSidecar, false}},
		{"both, tag unsupported", side, emb, false, ResolvedDate{side, SourceSidecar, false}},
		{"embedded only, tag supported", none, emb, true, ResolvedDate{emb, SourceEmbeddedTag, false}},
		{"embedded only, tag unsupported", none, emb, false, ResolvedDate{emb, SourceEmbeddedTag, false}},
		{"neither, tag supported", none, none, true, ResolvedDate{Source: SourceNone}},
		{"neither, tag unsupported", none, none, false, ResolvedDate{Source: SourceNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.sidecar, tt.embedded, tt.supportsTag)
			if !got.Timestamp.Equal(tt.want.Timestamp) || got.Source != tt.want.Source || got.NeedsTagWrite != tt.want.NeedsTagWrite {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
			if got.HasTimestamp() != !tt.want.Timestamp.IsZero() {
				t.Errorf("HasTimestamp() = %v", got.HasTimestamp())
			}
		})
	}
}

func TestResolve_TruncatesToSeconds(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 0, 0, 750_000_000, time.UTC)

	got := Resolve(ts, time.Time{}, true)
	if got.Timestamp.Nanosecond() != 0 {
		t.Errorf("Expected second precision, got %v", got.Timestamp)
	}

	got = Resolve(time.Time{}, ts, true)
	if got.Timestamp.Nanosecond() != 0 {
		t.Errorf("Expected second precision, got %v", got.Timestamp)
	}
}
