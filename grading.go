package quizforge

import "math"

// GradeQuiz scores a finalized question list against the recorded answers.
// It is pure: the questions are read, never mutated.
func GradeQuiz(questions []QuizQuestion) Grade {
	grade := Grade{
		Total:       len(questions),
		PerQuestion: make([]QuestionGrade, len(questions)),
	}

	for i, question := range questions {
		entry := QuestionGrade{
			UserChoice:    -1,
			CorrectChoice: question.AnswerIndex,
		}
		if question.UserAnswerIndex != nil {
			entry.IsAnswered = true
			entry.UserChoice = *question.UserAnswerIndex
			entry.IsCorrect = *question.UserAnswerIndex == question.AnswerIndex
		}
		if entry.IsAnswered {
			grade.Answered++
		}
		if entry.IsCorrect {
			grade.Correct++
		}
		grade.PerQuestion[i] = entry
	}

	grade.AccuracyAnswered = roundPercent(grade.Correct, grade.Answered)
	grade.AccuracyTotal = roundPercent(grade.Correct, grade.Total)
	return grade
}

// roundPercent computes round-half-up(100*numer/denom), or 0 when denom is 0.
func roundPercent(numer, denom int) int {
	if denom == 0 {
		return 0
	}
	return int(math.Floor(100*float64(numer)/float64(denom) + 0.5))
}
