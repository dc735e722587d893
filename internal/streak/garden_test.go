package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
)

func TestStageFor(t *testing.T) {
	tests := []struct {
		streak  int
		current bool
		want    Stage
	}{
		{0, true, StageSeed},
		{0, false, StageSeed},
		{6, true, StageSeed},
		{7, true, StageSprout},
		{20, true, StageSprout},
		{21, true, StageYoungPlant},
		{50, true, StageMaturePlant},
		{100, true, StageTree},
		{199, true, StageTree},
		{200, true, StageBlooming},
		{1000, true, StageBlooming},
		{12, false, StageWilted},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want.Name, StageFor(tt.streak, tt.current).Name, "StageFor(%d, %v)", tt.streak, tt.current)
	}
}

func TestStageOf(t *testing.T) {
	last := calendar.DayKey("2024-05-09")
	state := models.StreakState{CurrentStreak: 8, LongestStreak: 8, LastCompletedDate: &last}

	assert.Equal(t, StageSprout, StageOf(state, "2024-05-10"))
	assert.Equal(t, StageWilted, StageOf(state, "2024-05-12"))
}

func TestHealth(t *testing.T) {
	assert.Equal(t, 10, Health(0, true))
	assert.Equal(t, 25, Health(5, false))
	assert.Equal(t, 19, Health(10, true))
	assert.Equal(t, 100, Health(150, true))
}

func TestDaysToNextStage(t *testing.T) {
	days, next, ok := DaysToNextStage(3)
	assert.True(t, ok)
	assert.Equal(t, 4, days)
	assert.Equal(t, StageSprout, next)

	days, next, ok = DaysToNextStage(21)
	assert.True(t, ok)
	assert.Equal(t, 29, days)
	assert.Equal(t, StageMaturePlant, next)

	_, _, ok = DaysToNextStage(250)
	assert.False(t, ok)
}
