package service

import "testing"

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "key in URL error",
			in:   `Post "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent?key=secret123&alt=sse": connection refused`,
			want: `Post "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent?key=[REDACTED]&alt=sse": connection refused`,
		},
		{
			name: "key after other params",
			in:   "https://example.com/m:f?alt=sse&key=secret123",
			want: "https://example.com/m:f?alt=sse&key=[REDACTED]",
		},
		{
			name: "api_key variant",
			in:   "https://example.com/m:f?api_key=secret",
			want: "https://example.com/m:f?api_key=[REDACTED]",
		},
		{
			name: "monkey param untouched",
			in:   "https://example.com/m:f?monkey=banana",
			want: "https://example.com/m:f?monkey=banana",
		},
		{
			name: "no key unchanged",
			in:   "connection refused",
			want: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Redact(tt.in); got != tt.want {
				t.Errorf("Redact() = %q, want %q", got, tt.want)
			}
		})
	}
}
