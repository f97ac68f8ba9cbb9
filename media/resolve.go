package media

import "time"

// Resolve picks the authoritative capture time for one file. Zero times mean
// "absent".
//
// The sidecar wins over the embedded tag. The tag is written only when the
// sidecar supplied the time, the format can hold the tag, and the tag is not
// already there.
func Resolve(sidecarTS, embeddedTS time.Time, supportsEmbeddedTag bool) ResolvedDate {
	switch {
	case !sidecarTS.IsZero():
		return ResolvedDate{
			Timestamp:     sidecarTS.Truncate(time.Second),
			Source:        SourceSidecar,
			NeedsTagWrite: supportsEmbeddedTag && embeddedTS.IsZero(),
		}
	case !embeddedTS.IsZero():
		return ResolvedDate{
			Timestamp: embeddedTS.Truncate(time.Second),
			Source:    SourceEmbeddedTag,
		}
	default:
		return ResolvedDate{Source: SourceNone}
	}
}
