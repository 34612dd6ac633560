package services

import (
	"errors"
	"testing"
)

func TestUsernameBase(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"sara@example.org", "sara"},
		{"no-at-sign", "no-at-sign"},
		{"a@b@c", "a"},
		{"", ""},
	}
	for _, c := range cases {
		if got := UsernameBase(c.email); got != c.want {
			t.Errorf("UsernameBase(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}

func TestGenerateUniqueUsername(t *testing.T) {
	taken := map[string]bool{"sara": true, "sara1": true, "sara2": true}
	exists := func(candidate string) (bool, error) {
		return taken[candidate], nil
	}

	got, err := GenerateUniqueUsername("sara", exists)
	if err != nil {
		t.Fatal(err)
	}
	if got != "sara3" {
		t.Errorf("expected sara3, got %q", got)
	}

	got, err = GenerateUniqueUsername("fresh", exists)
	if err != nil {
		t.Fatal(err)
	}
	if got != "fresh" {
		t.Errorf("free base should be used as is, got %q", got)
	}
}

func TestGenerateUniqueUsernameExhausted(t *testing.T) {
	var probed []string
	everything := func(candidate string) (bool, error) {
		probed = append(probed, candidate)
		return true, nil
	}
	_, err := GenerateUniqueUsername("sara", everything)
	if !errors.Is(err, ErrUsernameExhausted) {
		t.Fatalf("expected ErrUsernameExhausted, got %v", err)
	}
	// the probe stops at sara999; sara1000 is never considered even if free
	if last := probed[len(probed)-1]; last != "sara999" {
		t.Errorf("last probed candidate should be sara999, got %q", last)
	}
	for _, candidate := range probed {
		if candidate == "sara1000" {
			t.Error("sara1000 must never be probed")
		}
	}
}

func TestGenerateUniqueUsernamePropagatesError(t *testing.T) {
	boom := errors.New("db down")
	_, err := GenerateUniqueUsername("sara", func(string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		full  string
		first string
		last  string
	}{
		{"Sara Ahmed", "Sara", "Ahmed"},
		{"Sara Al Ahmed", "Sara", "Al Ahmed"},
		{"Sara", "Sara", ""},
		{"  Sara   Ahmed  ", "Sara", "Ahmed"},
		{"", "", ""},
	}
	for _, c := range cases {
		first, last := SplitFullName(c.full)
		if first != c.first || last != c.last {
			t.Errorf("SplitFullName(%q) = %q, %q; want %q, %q", c.full, first, last, c.first, c.last)
		}
	}
}
