//go:build cgo

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestWindowBlit(t *testing.T) {
	o := testOptions(t)
	v, err := o.newViewer("cube", 4, 2)
	if err != nil {
		t.Fatalf("newViewer failed: %v", err)
	}
	var logs bytes.Buffer
	v.logger = log.New(&logs)
	v.device.Clear(10, 20, 30, 255)

	tests := []struct {
		name string
		size int
		want bool
	}{
		{"matching buffer", 4 * 2 * 4, true},
		{"short buffer", 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			g := &windowGame{v: v, rgba: make([]byte, tt.size)}
			if got := g.blit(); got != tt.want {
				t.Fatalf("blit() = %v, want %v", got, tt.want)
			}
			if !tt.want {
				if !strings.Contains(logs.String(), "draw frame") {
					t.Errorf("failure not logged, got %q", logs.String())
				}
				return
			}
			if got := g.rgba[:4]; !bytes.Equal(got, []byte{10, 20, 30, 255}) {
				t.Errorf("first pixel = %v, want RGBA 10 20 30 255", got)
			}
		})
	}
}
