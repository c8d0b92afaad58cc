package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldUseColors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "no color wins", env: map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}, want: false},
		{name: "force color", env: map[string]string{"FORCE_COLOR": "1"}, want: true},
		{name: "force color zero", env: map[string]string{"FORCE_COLOR": "0"}, want: false},
		{name: "ollafree force", env: map[string]string{EnvForceColors: "true"}, want: true},
		{name: "ollafree off", env: map[string]string{EnvForceColors: "false"}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "")
			t.Setenv("FORCE_COLOR", "")
			t.Setenv(EnvForceColors, "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.want, ShouldUseColors())
		})
	}
}
