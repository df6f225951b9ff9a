package domain

import (
	"math"
)

// ApplyStudyOutcome computes the new card and user scores after a quiz
// answer. The card score moves by ±1 and is floored at zero (a negative
// previous value is treated as zero first). The user aggregate gains a
// point on success and never decreases: lowering it could lower the
// derived level.
func ApplyStudyOutcome(prevCardScore, prevUserScore int, success bool) (newCardScore, newUserScore int) {
	if prevCardScore < 0 {
		prevCardScore = 0
	}
	if success {
		return prevCardScore + 1, prevUserScore + 1
	}
	return max(0, prevCardScore-1), prevUserScore
}

// LevelForScore derives the user level from the cumulative score:
//
//	level = floor(2*log2(score/10 + 1) + 1)
//
// The higher the level, the more additional points it takes to increase
// it. Score distribution per level:
//
//	lvl 1: 0-4
//	lvl 2: 5-9
//	lvl 3: 10-18
//	lvl 4: 19-29
//	lvl 5: 30-46
//	lvl 6: 47-69
//	lvl 7: 70-103
//	lvl 8: 104-149
//	lvl 9: 150-216
//	etc.
//
// A negative score is treated as zero, so the result is always >= 1.
func LevelForScore(score int) int {
	if score < 0 {
		score = 0
	}
	return int(2*math.Log2(float64(score)/10+1) + 1)
}
