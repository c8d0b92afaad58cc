package version

import (
	"fmt"
	"log"
	"runtime"
	"strings"

	"github.com/thushan/ollafree/theme"
)

var (
	Name        = "ollafree"
	Authors     = "Thushan Fernando"
	Description = "Free public Ollama servers, one call away"
	Version     = "v0.0.1"
	Commit      = "none"
	Date        = "nowish"
	User        = "local"
)

const (
	GithubHomeText  = "github.com/thushan/ollafree"
	GithubHomeUri   = "https://github.com/thushan/ollafree"
	GithubLatestUri = "https://github.com/thushan/ollafree/releases/latest"
)

const bannerWidth = 56

func PrintVersionInfo(extendedInfo bool, vlog *log.Logger) {
	vlog.Println(Banner(extendedInfo))
}

// Banner returns the version box; extendedInfo adds build details below it.
func Banner(extendedInfo bool) string {
	githubUri := theme.Hyperlink(GithubHomeUri, GithubHomeText)
	latestUri := theme.Hyperlink(GithubLatestUri, Version)

	// hyperlinks carry escape codes, pad on the visible text only
	pad := bannerWidth - 2 - len(GithubHomeText) - len(Version)
	if pad < 1 {
		pad = 1
	}

	var b strings.Builder

	b.WriteString(theme.ColourSplash("╔" + strings.Repeat("─", bannerWidth) + "╗\n"))
	b.WriteString(theme.ColourSplash(fmt.Sprintf("│ %-*s │\n", bannerWidth-2, Name+" - "+Description)))
	b.WriteString(theme.ColourSplash("│ "))
	b.WriteString(theme.StyleUrl(githubUri))
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(theme.ColourVersion(latestUri))
	b.WriteString(theme.ColourSplash(" │\n"))
	b.WriteString(theme.ColourSplash("╚" + strings.Repeat("─", bannerWidth) + "╝"))

	if extendedInfo {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" Commit: %s\n", Commit))
		b.WriteString(fmt.Sprintf("  Built: %s\n", Date))
		b.WriteString(fmt.Sprintf("  Using: %s (%s)\n", User, runtime.Version()))
	}

	return b.String()
}
