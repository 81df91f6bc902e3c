package domain

import "testing"

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	allowed := map[OrderStatus]OrderStatus{
		StatusReview:     StatusProcessing,
		StatusProcessing: StatusCompleted,
	}

	all := []OrderStatus{StatusReview, StatusProcessing, StatusCompleted}
	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusReview, StatusProcessing, StatusCompleted} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OrderStatus("SHIPPED").IsValid() {
		t.Errorf("unknown status should be invalid")
	}
}
