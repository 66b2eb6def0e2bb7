package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirectForRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{role: "super-admin", want: "/admin"},
		{role: "super_admin", want: "/admin"},
		{role: "admin", want: "/admin"},
		{role: "farmer", want: "/farmer-dashboard"},
		{role: "landowner", want: "/farmer-dashboard"},
		{role: "buyer", want: "/buyer-dashboard"},
		{role: "vendor", want: "/vendor-dashboard"},
		{role: "Copilot-Agent", want: "/copilot-dashboard"},
		{role: "lab", want: "/lab-dashboard"},
		{role: "consumer", want: "/consumer-dashboard"},
		{role: "unknown", want: DefaultRedirect},
		{role: "", want: DefaultRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, RedirectForRole(tt.role))
		})
	}
}
