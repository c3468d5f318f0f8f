package wizard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bluebook/internal/flow"
	"github.com/mark3labs/bluebook/internal/tui/theme"
)

// renderProgress renders "Step N of 3" with the step title and a marker per
// step. Steps up to and including current are filled.
func renderProgress(current flow.Step, width int) string {
	s := theme.Current().S()

	var markers []string
	for step := flow.StepPersonal; step <= flow.StepPickup; step++ {
		label := fmt.Sprintf(" %d ", int(step))
		if step <= current {
			markers = append(markers, s.ProgressDone.Render(label))
		} else {
			markers = append(markers, s.ProgressTodo.Render(label))
		}
	}
	bar := strings.Join(markers, s.ProgressLine.Render("───"))

	heading := s.Subtitle.Render(fmt.Sprintf("Step %d of %d", int(current), flow.StepCount)) +
		"  " + s.HeaderTitle.Render(current.Title())

	return lipgloss.Place(width, 3, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Center, heading, "", bar))
}
