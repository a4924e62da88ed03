package shared

const (
	UserID = "user_id"

	SessionTypeBatch  = "batch"
	SessionTypeReview = "review"

	QuestionKindPractice = "practice"
	QuestionKindQuiz     = "quiz"
	QuestionKindReview   = "review"

	StreakTypeDailyCorrect = "daily_correct"

	ReviewModeImmediate = "immediate"
	ReviewModeScheduled = "scheduled"
)
