package repositories

import (
	"errors"
	"fmt"
	"testing"

	"ingresso-platform/internal/models"

	"github.com/lib/pq"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock detected", &pq.Error{Code: "40P01"}, true},
		{"lock not available", &pq.Error{Code: "55P03"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"wrapped serialization failure", fmt.Errorf("query: %w", &pq.Error{Code: "40001"}), true},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("expected unique violation for 23505")
	}
	if isUniqueViolation(&pq.Error{Code: "40001"}) {
		t.Error("did not expect unique violation for 40001")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("did not expect unique violation for plain error")
	}
}

func TestWrapStoreErr(t *testing.T) {
	conflict := wrapStoreErr("update inventory", &pq.Error{Code: "40001"})
	if !errors.Is(conflict, models.ErrTransactionConflict) {
		t.Errorf("expected ErrTransactionConflict, got %v", conflict)
	}

	unavailable := wrapStoreErr("update inventory", errors.New("connection reset"))
	if !errors.Is(unavailable, models.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", unavailable)
	}
}
