package protocol

import (
	"math"
	"testing"
)

func TestEncodeSetLevel(t *testing.T) {
	tests := []struct {
		level  float64
		want   string
		wantOK bool
	}{
		{0, "#OUTPUT,5,1,0.00", true},
		{45.5, "#OUTPUT,5,1,45.50", true},
		{100, "#OUTPUT,5,1,100.00", true},
		{-0.01, "", false},
		{100.01, "", false},
		{math.NaN(), "", false},
		{math.Inf(1), "", false},
	}

	for _, tt := range tests {
		got, ok := EncodeSetLevel(5, tt.level)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("EncodeSetLevel(5, %v) = (%q, %v), want (%q, %v)", tt.level, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEncodeCommands(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"request level", EncodeRequestLevel(9), "?output,9,1"},
		{"open curtain", EncodeOpenCurtain(7), "#OUTPUT,7,3"},
		{"stop curtain", EncodeStopCurtain(7), "#OUTPUT,7,4"},
		{"close curtain", EncodeCloseCurtain(7), "#OUTPUT,7,2"},
		{"raise shade", EncodeRaiseShade(8), "#OUTPUT,8,2"},
		{"stop shade", EncodeStopShade(8), "#OUTPUT,8,4"},
		{"drop shade", EncodeDropShade(8), "#OUTPUT,8,3"},
		{"led on", EncodeLEDOn(40), "#OUTPUT,40,1,100"},
		{"led off", EncodeLEDOff(40), "#OUTPUT,40,1,0"},
		{"led stop", EncodeLEDStop(40), "#OUTPUT,40,1,0"},
		{"ids pass through unchecked", EncodeOpenCurtain(-1), "#OUTPUT,-1,3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
