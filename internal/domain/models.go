package domain

import "time"

// Badge labels awarded by the scoring engine.
const (
	BadgePerfectScore   = "Perfect Score"
	BadgeIEEEExpert     = "IEEE Expert"
	BadgeIEEEScholar    = "IEEE Scholar"
	BadgeIEEEEnthusiast = "IEEE Enthusiast"
	BadgeSpeedDemon     = "Speed Demon"
)

// DefaultMembershipType is assigned when signup does not name one.
const DefaultMembershipType = "non-ieee-member"

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Points        int      `json:"points"`
}

// Public strips the correct answer so the question can leave the service.
func (q Question) Public() PublicQuestion {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return PublicQuestion{
		ID:       q.ID,
		Question: q.Question,
		Options:  options,
		Points:   q.Points,
	}
}

// PublicQuestion is what clients receive when starting an attempt.
type PublicQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
}

// Answer is a single selected option inside a submission.
type Answer struct {
	QuestionID     int `json:"questionId"`
	SelectedOption int `json:"selectedOption"`
}

// Submission is one completed quiz attempt sent by a client.
// TimeSpent is nil when the client did not report elapsed seconds.
type Submission struct {
	Answers   []Answer `json:"answers" validate:"required"`
	TimeSpent *int     `json:"timeSpent,omitempty" validate:"omitempty,gte=0"`
}

// UserRecord holds a user's cumulative quiz stats. Score is the best score ever reached.
type UserRecord struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	MembershipType string     `json:"membershipType"`
	Avatar         string     `json:"avatar"`
	Score          int        `json:"score"`
	XP             int        `json:"xp"`
	Badges         []string   `json:"badges"`
	LastQuizAt     *time.Time `json:"lastQuizAt,omitempty"`
	TimeSpent      *int       `json:"timeSpent,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// HasBadge reports whether the badge was earned in any previous attempt.
func (u UserRecord) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// CompletedAt is the timestamp used to break leaderboard ties.
func (u UserRecord) CompletedAt() time.Time {
	if u.LastQuizAt != nil {
		return *u.LastQuizAt
	}
	return u.CreatedAt
}

// Attempt is the attempt-local outcome of scoring a submission.
type Attempt struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	XPEarned       int
	EarnedBadges   []string
}

// AttemptResult is returned to the client after a submission.
type AttemptResult struct {
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correctAnswers"`
	TotalQuestions int        `json:"totalQuestions"`
	XPEarned       int        `json:"xpEarned"`
	EarnedBadges   []string   `json:"earnedBadges"`
	User           UserRecord `json:"user"`
}

// Eligibility reports whether a user may start today's quiz.
type Eligibility struct {
	CanTakeQuiz bool       `json:"canTakeQuiz"`
	Message     string     `json:"message,omitempty"`
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`
}

// Registration is the profile data captured at signup.
type Registration struct {
	UserID         string `json:"-" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	MembershipType string `json:"membershipType"`
}

// LeaderboardEntry is a ranked read-only projection of a user record.
type LeaderboardEntry struct {
	Rank      int      `json:"rank"`
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Avatar    string   `json:"avatar"`
	Score     int      `json:"score"`
	XP        int      `json:"xp"`
	Badges    []string `json:"badges"`
	TimeSpent *int     `json:"timeSpent"`
}

// Leaderboard is a ranking snapshot pushed to live subscribers.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
