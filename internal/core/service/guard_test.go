package service

import (
	"testing"

	"github.com/uniblog/client/internal/core/domain"
)

func TestEnforce(t *testing.T) {
	cases := []struct {
		name string
		sess domain.Session
		want Decision
	}{
		{"absent session", domain.Session{}, RedirectToAuth},
		{"present session", domain.Session{Token: "T1", TokenType: "bearer", Present: true}, Proceed},
	}

	for _, tc := range cases {
		if got := Enforce(tc.sess); got != tc.want {
			t.Fatalf("%s: Enforce = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDecisionString(t *testing.T) {
	if Proceed.String() != "proceed" || RedirectToAuth.String() != "redirect_to_auth" {
		t.Fatalf("unexpected decision strings: %q, %q", Proceed, RedirectToAuth)
	}
}
