package adhesion_test

import (
	"testing"

	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
)

func TestStatusIsValid(t *testing.T) {
	valid := []adhesion.Status{
		adhesion.StatusPending,
		adhesion.StatusAwaitingSignature,
		adhesion.StatusInfoRequested,
		adhesion.StatusRejected,
		adhesion.StatusActive,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}

	invalid := []adhesion.Status{"", "draft", "PENDING", "approved"}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status adhesion.Status
		want   string
	}{
		{adhesion.StatusPending, "En attente"},
		{adhesion.StatusAwaitingSignature, "Accepté - En attente de signature"},
		{adhesion.StatusInfoRequested, "Information complémentaire demandée"},
		{adhesion.StatusRejected, "Refusé"},
		{adhesion.StatusActive, "Actif"},
	}
	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}

	// Unknown statuses render their raw value rather than a blank.
	if got := adhesion.Status("weird").Label(); got != "weird" {
		t.Errorf("Label of unknown status = %q, want %q", got, "weird")
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to adhesion.Status }{
		{adhesion.StatusPending, adhesion.StatusAwaitingSignature},
		{adhesion.StatusPending, adhesion.StatusRejected},
		{adhesion.StatusPending, adhesion.StatusInfoRequested},
		{adhesion.StatusInfoRequested, adhesion.StatusPending},
		{adhesion.StatusAwaitingSignature, adhesion.StatusActive},
	}
	for _, tt := range allowed {
		if !adhesion.CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%q, %q) = false, want true", tt.from, tt.to)
		}
	}

	forbidden := []struct{ from, to adhesion.Status }{
		{adhesion.StatusPending, adhesion.StatusActive},
		{adhesion.StatusAwaitingSignature, adhesion.StatusRejected},
		{adhesion.StatusAwaitingSignature, adhesion.StatusPending},
		{adhesion.StatusRejected, adhesion.StatusPending},
		{adhesion.StatusActive, adhesion.StatusRejected},
		{adhesion.StatusInfoRequested, adhesion.StatusAwaitingSignature},
		{adhesion.StatusPending, adhesion.StatusPending},
	}
	for _, tt := range forbidden {
		if adhesion.CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%q, %q) = true, want false", tt.from, tt.to)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !adhesion.StatusRejected.Terminal() {
		t.Error("rejected should be terminal")
	}
	if !adhesion.StatusActive.Terminal() {
		t.Error("active should be terminal")
	}
	for _, s := range []adhesion.Status{adhesion.StatusPending, adhesion.StatusAwaitingSignature, adhesion.StatusInfoRequested} {
		if s.Terminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestOpen(t *testing.T) {
	// Only a rejection frees the member's slot on a project.
	if adhesion.StatusRejected.Open() {
		t.Error("rejected should not count as open")
	}
	for _, s := range []adhesion.Status{
		adhesion.StatusPending,
		adhesion.StatusAwaitingSignature,
		adhesion.StatusInfoRequested,
		adhesion.StatusActive,
	} {
		if !s.Open() {
			t.Errorf("%q should count as open", s)
		}
	}
}
