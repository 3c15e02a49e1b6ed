package services

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score returns the percentage of correct answers, 0 for an empty quiz.
// No rounding is applied; the stored score is the exact quotient.
func (s *ScoringService) Score(totalQuestions, correctAnswers int) float64 {
	if totalQuestions <= 0 {
		return 0
	}
	return 100 * float64(correctAnswers) / float64(totalQuestions)
}

// Passed compares the score against the quiz's passing score. When no
// passing score is configured the outcome is undefined and nil is returned.
func (s *ScoringService) Passed(score float64, passingScore *float64) *bool {
	if passingScore == nil {
		return nil
	}
	passed := score >= *passingScore
	return &passed
}
