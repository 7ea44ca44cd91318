package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyFunc(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "x-forwarded-for first entry", headers: map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2", "X-Real-IP": "3.3.3.3"}, remoteAddr: "9.9.9.9:1", want: "1.1.1.1"},
		{name: "x-real-ip", headers: map[string]string{"X-Real-IP": "3.3.3.3"}, remoteAddr: "9.9.9.9:1", want: "3.3.3.3"},
		{name: "remote addr host", remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "remote addr without port", remoteAddr: "10.0.0.2", want: "10.0.0.2"},
		{name: "unknown", remoteAddr: "", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, DefaultKeyFunc(r))
		})
	}
}
