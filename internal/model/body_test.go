package model

import "testing"

func TestLiftJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantNil bool
	}{
		{name: "object", raw: `{"contents":[{"parts":[{"text":"hi"}]}]}`, want: `{"contents":[{"parts":[{"text":"hi"}]}]}`},
		{name: "whitespace kept", raw: "{ \"a\" : 1 }\n", want: "{ \"a\" : 1 }\n"},
		{name: "array", raw: `[1,2]`, want: `[1,2]`},
		{name: "empty", raw: "", wantNil: true},
		{name: "malformed", raw: `{"contents":`, wantNil: true},
		{name: "form data", raw: "a=1&b=2", wantNil: true},
		{name: "null", raw: "null", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LiftJSONBody([]byte(tt.raw))
			if tt.wantNil {
				if got != nil {
					t.Errorf("LiftJSONBody(%q) = %q, want nil", tt.raw, got)
				}
				return
			}
			if string(got) != tt.want {
				t.Errorf("LiftJSONBody(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
