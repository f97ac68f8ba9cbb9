package exiftool

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseableTag means the tag holds a value that is not a date. The tag
// is present, so it must not be treated as missing.
var ErrUnparseableTag = errors.New("capture tag is not a valid date")

const (
	tagLayout       = "2006:01:02 15:04:05"
	tagLayoutOffset = "2006:01:02 15:04:05Z07:00"
)

// ParseTagTime parses an EXIF date/time value such as "2021:01:01 00:00:00".
// Values without an offset are read in loc. Sub-second digits are accepted
// and dropped. Empty, blank-placeholder or zeroed values report ok=false;
// any other value that is not a date returns ErrUnparseableTag.
func ParseTagTime(value string, loc *time.Location) (time.Time, bool, error) {
	if loc == nil {
		loc = time.UTC
	}

	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
	if strings.Trim(value, " :") == "" || strings.HasPrefix(value, "0000:00:00") {
		return time.Time{}, false, nil
	}

	if t, err := time.Parse(tagLayoutOffset, value); err == nil {
		return t.Truncate(time.Second), true, nil
	}
	if t, err := time.ParseInLocation(tagLayout, value, loc); err == nil {
		return t.Truncate(time.Second), true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrUnparseableTag, value)
}

// FormatTagTime formats t as an EXIF date/time in loc.
func FormatTagTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(tagLayout)
}
