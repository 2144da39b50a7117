package app

import (
	"time"

	"ieee-quiz-service/internal/domain"
)

const (
	speedDemonLimit = 120 // seconds

	perfectScoreBonus = 100
	expertBonus       = 50
	scholarBonus      = 25
	enthusiastBonus   = 10
	speedDemonBonus   = 30

	expertThreshold     = 8
	scholarThreshold    = 6
	enthusiastThreshold = 4
)

// Score grades a submission against the bank. Answers for unknown question IDs are ignored.
func Score(bank []domain.Question, answers []domain.Answer, timeSpent *int) domain.Attempt {
	byID := make(map[int]domain.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}

	attempt := domain.Attempt{
		TotalQuestions: len(bank),
		EarnedBadges:   []string{},
	}
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok || question.CorrectAnswer != answer.SelectedOption {
			continue
		}
		attempt.Score += question.Points
		attempt.CorrectAnswers++
		attempt.XPEarned += question.Points * 2
	}

	// Tiers are exclusive; only the highest one applies.
	switch correct := attempt.CorrectAnswers; {
	case attempt.TotalQuestions > 0 && correct == attempt.TotalQuestions:
		award(&attempt, domain.BadgePerfectScore, perfectScoreBonus)
	case correct >= expertThreshold:
		award(&attempt, domain.BadgeIEEEExpert, expertBonus)
	case correct >= scholarThreshold:
		award(&attempt, domain.BadgeIEEEScholar, scholarBonus)
	case correct >= enthusiastThreshold:
		award(&attempt, domain.BadgeIEEEEnthusiast, enthusiastBonus)
	}

	if timeSpent != nil && *timeSpent > 0 && *timeSpent < speedDemonLimit {
		award(&attempt, domain.BadgeSpeedDemon, speedDemonBonus)
	}
	return attempt
}

// Merge folds an attempt into the stored record and returns the updated copy.
func Merge(user domain.UserRecord, attempt domain.Attempt, timeSpent *int, now time.Time) domain.UserRecord {
	merged := user
	if attempt.Score > merged.Score {
		merged.Score = attempt.Score
	}
	merged.XP += attempt.XPEarned
	merged.Badges = unionBadges(user.Badges, attempt.EarnedBadges)

	at := now
	merged.LastQuizAt = &at
	if timeSpent != nil {
		spent := *timeSpent
		merged.TimeSpent = &spent
	} else {
		merged.TimeSpent = nil
	}
	return merged
}

func unionBadges(existing, earned []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(earned))
	out := make([]string, 0, len(existing)+len(earned))
	for _, list := range [][]string{existing, earned} {
		for _, badge := range list {
			if _, ok := seen[badge]; ok {
				continue
			}
			seen[badge] = struct{}{}
			out = append(out, badge)
		}
	}
	return out
}

func award(attempt *domain.Attempt, badge string, bonus int) {
	attempt.EarnedBadges = append(attempt.EarnedBadges, badge)
	attempt.XPEarned += bonus
}
