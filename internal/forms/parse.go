package forms

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"healthtracker/internal/validation"
)

const (
	msgRequired       = "This field is required."
	msgWholeNumber    = "Enter a whole number."
	msgNumber         = "Enter a number."
	msgDate           = "Enter a valid date."
	msgDateTime       = "Enter a valid date/time."
	msgDuration       = "Enter a valid duration."
	msgNonNegative    = "Ensure this value is greater than or equal to 0."
	msgPositive       = "Ensure this value is greater than 0."
	msgInvalidChoice  = "Select a valid choice. That choice is not one of the available choices."
	msgEndBeforeStart = "End date must be on or after the start date."
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var errDurationRange = errors.New("duration out of range")

// [D ][[HH:]MM:]SS[.ffffff]
var clockDuration = regexp.MustCompile(`^(?:(\d+) )?(?:(?:(\d+):)?(\d+):)?(\d+(?:\.\d+)?)$`)

// parser reads typed fields out of Values, collecting every failure.
type parser struct {
	values Values
	errs   FieldErrors
}

func newParser(values Values) *parser {
	return &parser{values: values, errs: FieldErrors{}}
}

func (p *parser) required(field string) (string, bool) {
	raw := p.values.Get(field)
	if raw == "" {
		p.errs.Add(field, msgRequired)
		return "", false
	}
	return raw, true
}

// secret reads a required field exactly as submitted. Passwords are never
// trimmed so that registration and login hash the same bytes.
func (p *parser) secret(field string) (string, bool) {
	raw := p.values[field]
	if raw == "" {
		p.errs.Add(field, msgRequired)
		return "", false
	}
	return raw, true
}

func (p *parser) text(field string, maxLen int) string {
	raw, ok := p.required(field)
	if !ok {
		return ""
	}
	if err := validation.Validator().Var(raw, fmt.Sprintf("max=%d", maxLen)); err != nil {
		p.errs.Add(field, fmt.Sprintf("Ensure this value has at most %d characters (it has %d).",
			maxLen, utf8.RuneCountInString(raw)))
		return ""
	}
	return raw
}

// wholeNumber parses a required integer and checks it against a validator tag
// such as "gte=0" or "min=1,max=10".
func (p *parser) wholeNumber(field, rule, ruleMsg string) int {
	raw, ok := p.required(field)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs.Add(field, msgWholeNumber)
		return 0
	}
	if err := validation.Validator().Var(n, rule); err != nil {
		p.errs.Add(field, ruleMsg)
		return 0
	}
	return n
}

func (p *parser) positiveNumber(field string) float64 {
	raw, ok := p.required(field)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		p.errs.Add(field, msgNumber)
		return 0
	}
	if err := validation.Validator().Var(f, "gt=0"); err != nil {
		p.errs.Add(field, msgPositive)
		return 0
	}
	return f
}

func (p *parser) date(field string) (time.Time, bool) {
	raw, ok := p.required(field)
	if !ok {
		return time.Time{}, false
	}
	d, err := ParseDate(raw)
	if err != nil {
		p.errs.Add(field, msgDate)
		return time.Time{}, false
	}
	return d, true
}

func (p *parser) dateTime(field string) time.Time {
	raw, ok := p.required(field)
	if !ok {
		return time.Time{}
	}
	dt, err := ParseDateTime(raw)
	if err != nil {
		p.errs.Add(field, msgDateTime)
		return time.Time{}
	}
	return dt
}

func (p *parser) duration(field string) time.Duration {
	raw, ok := p.required(field)
	if !ok {
		return 0
	}
	d, err := ParseDuration(raw)
	if err != nil {
		p.errs.Add(field, msgDuration)
		return 0
	}
	if d < 0 {
		p.errs.Add(field, msgNonNegative)
		return 0
	}
	return d
}

// ParseDate parses an ISO calendar date in UTC.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}

// ParseDateTime accepts the datetime-local input format and its space-separated
// and date-only variants. Values are interpreted as UTC.
func ParseDateTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseDuration accepts "[D ][[HH:]MM:]SS[.ffffff]" or Go duration syntax such as "1h30m".
func ParseDuration(raw string) (time.Duration, error) {
	if m := clockDuration.FindStringSubmatch(raw); m != nil {
		var total time.Duration
		remaining := time.Duration(math.MaxInt64)
		units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
		for i, part := range m[1:4] {
			if part == "" {
				continue
			}
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return 0, err
			}
			if n > int64(remaining/units[i]) {
				return 0, errDurationRange
			}
			total += time.Duration(n) * units[i]
			remaining -= time.Duration(n) * units[i]
		}
		secs, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return 0, err
		}
		if secs*float64(time.Second) >= float64(remaining) {
			return 0, errDurationRange
		}
		return total + time.Duration(secs*float64(time.Second)), nil
	}
	return time.ParseDuration(raw)
}

// FormatDuration renders d as "[D day(s), ]H:MM:SS".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	s := (d - m*time.Minute) / time.Second
	clock := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	switch {
	case days == 1:
		return "1 day, " + clock
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
	return clock
}
