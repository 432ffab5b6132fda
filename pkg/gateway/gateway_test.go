package gateway

import (
	"errors"
	"fmt"
	"testing"
)

func TestGatewayErrorRetriable(t *testing.T) {
	tests := []struct {
		reason Reason
		want   bool
	}{
		{ReasonNetwork, true},
		{ReasonTimeout, true},
		{ReasonDeclined, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			e := &GatewayError{Reason: tt.reason, Message: "x"}
			if got := e.Retriable(); got != tt.want {
				t.Errorf("Retriable() for %s = %v, want %v", tt.reason, got, tt.want)
			}
		})
	}
}

func TestGatewayErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	e := &GatewayError{Reason: ReasonNetwork, Message: "capture outcome unknown", Err: cause}

	if !errors.Is(e, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	var ge *GatewayError
	if !errors.As(error(e), &ge) {
		t.Error("errors.As should match *GatewayError")
	}
}
