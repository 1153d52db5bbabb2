package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Parse parses an RFC 5545 RRULE string anchored at dtstart.
func Parse(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(strings.TrimSpace(ruleStr), "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	opt.Dtstart = dtstart
	return rrule.NewRRule(*opt)
}

// Validate reports whether ruleStr is a usable recurrence rule.
func Validate(ruleStr string) error {
	if !strings.Contains(strings.ToUpper(ruleStr), "FREQ=") {
		return fmt.Errorf("failed to parse RRULE: missing FREQ")
	}
	_, err := Parse(ruleStr, time.Now())
	return err
}

// Next returns the first occurrence strictly after 'after', or nil when the rule is exhausted.
func Next(ruleStr string, dtstart, after time.Time) (*time.Time, error) {
	rule, err := Parse(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	next := rule.After(after, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

var freqNames = map[string][2]string{
	"HOURLY":  {"hourly", "hours"},
	"DAILY":   {"daily", "days"},
	"WEEKLY":  {"weekly", "weeks"},
	"MONTHLY": {"monthly", "months"},
	"YEARLY":  {"yearly", "years"},
}

var dayNames = map[string]string{
	"MO": "Mon", "TU": "Tue", "WE": "Wed", "TH": "Thu",
	"FR": "Fri", "SA": "Sat", "SU": "Sun",
}

// Describe returns a short English description such as "every 2 weeks on Mon, Thu".
func Describe(ruleStr string) string {
	ruleStr = strings.TrimPrefix(strings.TrimSpace(ruleStr), "RRULE:")

	info := make(map[string]string)
	for _, p := range strings.Split(ruleStr, ";") {
		if k, v, ok := strings.Cut(p, "="); ok {
			info[strings.ToUpper(k)] = v
		}
	}

	names, ok := freqNames[strings.ToUpper(info["FREQ"])]
	if !ok {
		return "once"
	}

	var b strings.Builder
	if interval := info["INTERVAL"]; interval == "" || interval == "1" {
		b.WriteString("repeats " + names[0])
	} else {
		b.WriteString(fmt.Sprintf("every %s %s", interval, names[1]))
	}

	if byDay := info["BYDAY"]; byDay != "" {
		var days []string
		for _, d := range strings.Split(byDay, ",") {
			if name, ok := dayNames[strings.ToUpper(d)]; ok {
				days = append(days, name)
			}
		}
		if len(days) > 0 {
			b.WriteString(" on " + strings.Join(days, ", "))
		}
	}

	if count := info["COUNT"]; count != "" {
		b.WriteString(fmt.Sprintf(", %s times", count))
	}
	if until := info["UNTIL"]; until != "" {
		if t, err := time.Parse("20060102T150405Z", until); err == nil {
			b.WriteString(", until " + t.Format("2006-01-02"))
		}
	}
	return b.String()
}
