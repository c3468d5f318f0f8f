package wizard

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bluebook/internal/tui/theme"
)

// DefaultSplashDelay is how long the splash screen stays up.
const DefaultSplashDelay = 3500 * time.Millisecond

const splashLogo = `
█▀▄ █   █ █ █▀▀ █▀▄ █▀█ █▀█ █ █
█▀▄ █   █ █ █▀▀ █▀▄ █ █ █ █ █▀▄
▀▀  ▀▀▀ ▀▀▀ ▀▀▀ ▀▀  ▀▀▀ ▀▀▀ ▀ ▀`

// splashTick schedules the end of the splash screen for token.
func splashTick(delay time.Duration, token int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return splashDoneMsg{token: token}
	})
}

func renderSplash(width, height int) string {
	th := theme.Current()
	s := th.S()

	logo := theme.ApplyGradient(strings.TrimPrefix(splashLogo, "\n"), th.Primary, th.Tertiary)
	content := lipgloss.JoinVertical(lipgloss.Center,
		logo,
		"",
		s.HeaderTitle.Render("Bluebook"),
		s.Subtitle.Render("Renewal Service"),
		"",
		s.Muted.Render("Quick • Easy • Reliable"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
