package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daystreak/internal/achievements"
	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/checkin"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/stats"
	"github.com/julianstephens/daystreak/internal/streak"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// HabitRow is a habit with its persisted streak.
type HabitRow struct {
	Habit models.Habit
	State models.StreakState
}

// RenderHabits writes the habit list with each habit's current streak and
// garden stage as of today.
func RenderHabits(w io.Writer, rows []HabitRow, today calendar.DayKey) {
	fmt.Fprintln(w, titleStyle.Render("Habits"))
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No habits found."))
		return
	}
	for _, r := range rows {
		stage := streak.StageOf(r.State, today)
		line := fmt.Sprintf("  %-24s %-13s %4d  %s %s", r.Habit.Name, r.Habit.Category, r.State.CurrentAsOf(today), stage.Emoji, stage.Name)
		if !r.Habit.Active {
			line = mutedStyle.Render(line + " [inactive]")
		}
		fmt.Fprintln(w, line)
	}
}

// RenderStreak writes the streak report of one habit.
func RenderStreak(w io.Writer, habit models.Habit, state models.StreakState, today calendar.DayKey) {
	current := state.CurrentAsOf(today)
	stage := streak.StageOf(state, today)

	fmt.Fprintln(w, titleStyle.Render(habit.Name))
	fmt.Fprintf(w, "  %-16s %d\n", "Current streak", current)
	fmt.Fprintf(w, "  %-16s %d\n", "Longest streak", state.LongestStreak)
	last := "never"
	if state.LastCompletedDate != nil {
		last = state.LastCompletedDate.String()
	}
	fmt.Fprintf(w, "  %-16s %s\n", "Last completed", last)
	fmt.Fprintf(w, "  %-16s %s %s (%s)\n", "Garden", stage.Emoji, stage.Name, stage.Description)
	fmt.Fprintf(w, "  %-16s %d%%\n", "Health", streak.Health(current, state.IsCurrent(today)))

	if stage == streak.StageWilted {
		fmt.Fprintln(w, warnStyle.Render("  Check in today to start growing again."))
		return
	}
	if days, next, ok := streak.DaysToNextStage(current); ok {
		fmt.Fprintf(w, "  %d more day(s) to %s %s\n", days, next.Emoji, next.Name)
	}
}

// RenderStats writes a user's rollup.
func RenderStats(w io.Writer, s stats.Stats, today calendar.DayKey) {
	fmt.Fprintln(w, titleStyle.Render("Stats for "+today.String()))
	fmt.Fprintf(w, "  %-22s %5d\n", "Active habits", s.ActiveHabitCount)
	fmt.Fprintf(w, "  %-22s %5d\n", "Max streak", s.MaxStreak)
	fmt.Fprintf(w, "  %-22s %4d%%\n", "Weekly completion", s.WeeklyCompletionRate)
	fmt.Fprintf(w, "  %-22s %5d\n", "Completed habit-days", s.TotalCompletedDays)
}

// RenderAchievements writes every rule with its unlock state and progress.
func RenderAchievements(w io.Writer, ov achievements.Overview) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Achievements  %d/%d unlocked  %d points  (%d%%)",
		ov.UnlockedCount, ov.TotalCount, ov.TotalPoints, ov.CompletionRate)))
	for _, st := range ov.Achievements {
		mark := "[ ]"
		when := ""
		if st.Unlocked {
			mark = "[x]"
			if st.UnlockedAt != nil {
				when = "  " + st.UnlockedAt.Format("2006-01-02")
			}
		}
		line := strings.TrimRight(fmt.Sprintf("  %s %-18s %4d pts %4d%%  %s", mark, st.Title, st.Points, st.ProgressPercent, st.Icon), " ")
		if st.Unlocked {
			line = okStyle.Render(line + when)
		}
		fmt.Fprintln(w, line)
	}
}

// RenderUnlocked announces achievements unlocked by the last action.
func RenderUnlocked(w io.Writer, unlocked []models.Achievement) {
	for _, a := range unlocked {
		fmt.Fprintln(w, okStyle.Render(strings.TrimRight(fmt.Sprintf("Achievement unlocked: %s (+%d pts) %s", a.Title, a.Points, a.Icon), " ")))
	}
}

func statusLabel(s models.ProgressStatus) string {
	switch s {
	case models.StatusCompleted:
		return okStyle.Render(string(s))
	case models.StatusFailed:
		return warnStyle.Render(string(s))
	default:
		return string(s)
	}
}

// RenderGoals writes goals with their progress. names maps habit ids to names.
func RenderGoals(w io.Writer, goals []models.Goal, names map[string]string) {
	fmt.Fprintln(w, titleStyle.Render("Goals"))
	if len(goals) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No goals found."))
		return
	}
	for _, g := range goals {
		fmt.Fprintf(w, "  %-20s %-7s %3d/%-3d %s..%s  %s\n",
			names[g.HabitID], g.Period, g.CurrentProgress, g.TargetCount, g.StartDate, g.EndDate, statusLabel(g.Status))
	}
}

// RenderChallenges writes challenges with their streak progress.
func RenderChallenges(w io.Writer, challenges []models.Challenge, names map[string]string) {
	fmt.Fprintln(w, titleStyle.Render("Challenges"))
	if len(challenges) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No challenges found."))
		return
	}
	for _, c := range challenges {
		fmt.Fprintf(w, "  %-20s %3d/%-3d days %s..%s  %s\n",
			names[c.HabitID], c.CurrentStreak, c.TargetDays, c.StartDate, c.EndDate, statusLabel(c.Status))
	}
}

// RenderCheckIn summarizes a check-in.
func RenderCheckIn(w io.Writer, habit models.Habit, res checkin.Result) {
	verb := "Checked in"
	if !res.Log.Completed {
		verb = "Cleared"
	}
	fmt.Fprintf(w, "✓ %s %q for %s\n", verb, habit.Name, res.Day)
	fmt.Fprintf(w, "  Streak %d (longest %d)  %s %s\n", res.Streak.CurrentStreak, res.Streak.LongestStreak, res.Streak.Stage.Emoji, res.Streak.Stage.Name)
	for _, g := range res.Goals {
		fmt.Fprintf(w, "  Goal %d/%d (%s)  %s\n", g.CurrentProgress, g.TargetCount, g.Period, statusLabel(g.Status))
	}
	for _, c := range res.Challenges {
		fmt.Fprintf(w, "  Challenge %d/%d days  %s\n", c.CurrentStreak, c.TargetDays, statusLabel(c.Status))
	}
	RenderUnlocked(w, res.Unlocked)
}
