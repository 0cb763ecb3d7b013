package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestRatio(t *testing.T) {
	cases := []struct {
		v, max, want float32
	}{
		{5, 10, 0.5},
		{20, 10, 1},
		{-1, 10, 0},
		{3, 0, 1},
	}
	for _, c := range cases {
		if got := Ratio(c.v, c.max); got != c.want {
			t.Fatalf("Ratio(%v, %v) = %v, want %v", c.v, c.max, got, c.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		want    string
	}{
		{"text info", "info", "text", false, "msg=hello"},
		{"json debug", "debug", "json", false, `"msg":"hello"`},
		{"bad level", "loud", "text", true, ""},
		{"bad format", "info", "xml", true, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(&buf, c.level, c.format)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			logger.Info("hello")
			if !strings.Contains(buf.String(), c.want) {
				t.Fatalf("output %q missing %q", buf.String(), c.want)
			}
		})
	}
}
