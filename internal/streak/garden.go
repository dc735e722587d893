package streak

import (
	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
)

// Stage is the habit-garden growth level of a streak.
type Stage struct {
	Name        string
	Emoji       string
	MinDays     int
	MaxDays     int // -1 for unbounded
	Description string
}

var (
	StageSeed        = Stage{Name: "Seed", Emoji: "🌰", MinDays: 0, MaxDays: 6, Description: "Just planted"}
	StageSprout      = Stage{Name: "Sprout", Emoji: "🌱", MinDays: 7, MaxDays: 20, Description: "Starting to grow"}
	StageYoungPlant  = Stage{Name: "Young Plant", Emoji: "🌿", MinDays: 21, MaxDays: 49, Description: "Growing strong"}
	StageMaturePlant = Stage{Name: "Mature Plant", Emoji: "🪴", MinDays: 50, MaxDays: 99, Description: "Well established"}
	StageTree        = Stage{Name: "Strong Tree", Emoji: "🌳", MinDays: 100, MaxDays: 199, Description: "Deeply rooted"}
	StageBlooming    = Stage{Name: "Blooming Garden", Emoji: "🌸", MinDays: 200, MaxDays: -1, Description: "Full bloom!"}
	StageWilted      = Stage{Name: "Wilted", Emoji: "🥀", MinDays: -1, MaxDays: -1, Description: "Needs attention"}
)

// growth lists the stages of a living plant in order
var growth = []Stage{StageSeed, StageSprout, StageYoungPlant, StageMaturePlant, StageTree, StageBlooming}

// StageFor maps a run length to a stage. A broken run (not current) with
// any length wilts.
func StageFor(streak int, current bool) Stage {
	if !current && streak > 0 {
		return StageWilted
	}
	stage := StageSeed
	for _, s := range growth {
		if streak >= s.MinDays {
			stage = s
		}
	}
	return stage
}

// StageOf returns the stage of a persisted streak as seen from now.
func StageOf(state models.StreakState, now calendar.DayKey) Stage {
	return StageFor(state.CurrentStreak, state.IsCurrent(now))
}

// Health is a 0-100 vitality score for display.
func Health(streak int, current bool) int {
	switch {
	case !current && streak > 0:
		return 25
	case streak == 0:
		return 10
	}
	h := 10 + float64(streak)*0.9
	if h > 100 {
		return 100
	}
	return int(h + 0.5)
}

// DaysToNextStage returns how many more days the streak needs to grow, and
// the stage it grows into. ok is false at the final stage.
func DaysToNextStage(streak int) (days int, next Stage, ok bool) {
	for i, s := range growth[:len(growth)-1] {
		if streak >= s.MinDays && streak <= s.MaxDays {
			n := growth[i+1]
			return n.MinDays - streak, n, true
		}
	}
	return 0, Stage{}, false
}
