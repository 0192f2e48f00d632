package lineutil

import (
	"net/http/httptest"
	"testing"
)

func TestSecureBaseURL(t *testing.T) {
	t.Parallel()

	forwarded := map[string]string{"X-Forwarded-Host": "bot.example.com, proxy"}
	tests := []struct {
		name    string
		target  string
		headers map[string]string
		trust   bool
		want    string
	}{
		{"plain http", "http://bot.example.com/callback", nil, false, "https://bot.example.com"},
		{"https kept", "https://bot.example.com/callback", nil, false, "https://bot.example.com"},
		{"forwarded host trusted", "http://10.0.0.1:10000/callback", forwarded, true, "https://bot.example.com"},
		{"forwarded host ignored", "http://10.0.0.1:10000/callback", forwarded, false, "https://10.0.0.1:10000"},
		{"empty forwarded host", "http://bot.example.com/callback", map[string]string{"X-Forwarded-Host": " "}, true, "https://bot.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", tt.target, nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := SecureBaseURL(r, tt.trust); got != tt.want {
				t.Errorf("SecureBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStaticURL(t *testing.T) {
	t.Parallel()

	if got, want := StaticURL("https://bot.example.com/", "/camera.png"), "https://bot.example.com/static/camera.png"; got != want {
		t.Errorf("StaticURL() = %q, want %q", got, want)
	}
}
