package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAgeCriteria = errors.New("invalid age criteria")

// AgeCriteria is one of AgeRange, AgeAtLeast or AgeExact.
type AgeCriteria interface {
	Matches(age int) bool
	String() string
	ageCriteria()
}

// AgeRange matches Min <= age <= Max.
type AgeRange struct {
	Min, Max int
}

func (r AgeRange) Matches(age int) bool { return age >= r.Min && age <= r.Max }
func (r AgeRange) String() string       { return fmt.Sprintf("%d-%d", r.Min, r.Max) }
func (AgeRange) ageCriteria()           {}

// AgeAtLeast matches age >= Min ("N+").
type AgeAtLeast struct {
	Min int
}

func (a AgeAtLeast) Matches(age int) bool { return age >= a.Min }
func (a AgeAtLeast) String() string       { return fmt.Sprintf("%d+", a.Min) }
func (AgeAtLeast) ageCriteria()           {}

// AgeExact matches a single age.
type AgeExact struct {
	Age int
}

func (e AgeExact) Matches(age int) bool { return age == e.Age }
func (e AgeExact) String() string       { return strconv.Itoa(e.Age) }
func (AgeExact) ageCriteria()           {}

// ParseAgeCriteria accepts "min-max", "N+" or a bare number.
func ParseAgeCriteria(s string) (AgeCriteria, error) {
	s = strings.TrimSpace(s)

	if prefix, ok := strings.CutSuffix(s, "+"); ok {
		n, err := parseAge(prefix)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAgeCriteria, s, err)
		}
		return AgeAtLeast{Min: n}, nil
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		minAge, err := parseAge(lo)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAgeCriteria, s, err)
		}
		maxAge, err := parseAge(hi)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAgeCriteria, s, err)
		}
		if minAge > maxAge {
			return nil, fmt.Errorf("%w %q: lower bound exceeds upper bound", ErrInvalidAgeCriteria, s)
		}
		return AgeRange{Min: minAge, Max: maxAge}, nil
	}

	n, err := parseAge(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidAgeCriteria, s, err)
	}
	return AgeExact{Age: n}, nil
}

func parseAge(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("not a number")
	}
	if n < 0 {
		return 0, errors.New("negative age")
	}
	return n, nil
}
