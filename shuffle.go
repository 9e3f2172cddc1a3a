package quizforge

import "math/rand"

// ShuffleQuestions shuffles each question's choices independently and then
// the question order itself. Correctness bookkeeping survives: the literal
// text at the new answer index equals whatever was correct before the
// shuffle, and a recorded user answer keeps pointing at the same choice text.
func ShuffleQuestions(rng *rand.Rand, questions []QuizQuestion) {
	for i := range questions {
		shuffleChoices(rng, &questions[i])
	}
	rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

type indexedChoice struct {
	text     string
	original int
}

func shuffleChoices(rng *rand.Rand, question *QuizQuestion) {
	pairs := make([]indexedChoice, len(question.Choices))
	for i, choice := range question.Choices {
		pairs[i] = indexedChoice{text: choice, original: i}
	}
	rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})

	choices := make([]string, len(pairs))
	answer := -1
	userAnswer := -1
	for i, pair := range pairs {
		choices[i] = pair.text
		if pair.original == question.AnswerIndex {
			answer = i
		}
		if question.UserAnswerIndex != nil && pair.original == *question.UserAnswerIndex {
			userAnswer = i
		}
	}

	// The answer pair is always found; the index must never go negative.
	if answer < 0 {
		answer = 0
	}

	question.Choices = choices
	question.AnswerIndex = answer
	if question.UserAnswerIndex != nil && userAnswer >= 0 {
		moved := userAnswer
		question.UserAnswerIndex = &moved
	}
}
