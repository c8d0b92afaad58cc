package util

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/thushan/ollafree/internal/env"
)

/*
   references:
   - https://no-color.org/
   - https://github.com/sitkevij/no_color
*/

const EnvForceColors = "OLLAFREE_FORCE_COLORS"

// IsTerminal checks if stderr, where logs go, is a terminal
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// ShouldUseColors determines if coloured output should be used
func ShouldUseColors() bool {
	if noColor := os.Getenv("NO_COLOR"); noColor != "" {
		return false
	}

	if forceColor := os.Getenv("FORCE_COLOR"); forceColor != "" {
		return forceColor != "0"
	}

	return env.GetEnvBoolOrDefault(EnvForceColors, IsTerminal())
}
