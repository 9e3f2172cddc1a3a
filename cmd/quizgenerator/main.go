package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"quizforge"
)

func main() {
	var (
		title        = flag.String("title", "", "Quiz title")
		sourceFile   = flag.String("source", "", "File with source text to base questions on (required unless -collect)")
		numQuestions = flag.Int("questions", 10, "Number of questions to generate")
		difficulty   = flag.String("difficulty", "medium", "Difficulty level (easy, medium, hard, very_hard)")
		choices      = flag.Int("choices", 4, "Choices per question")
		outputFile   = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		dbPath       = flag.String("db", "", "Quiz database path (default: from QUIZFORGE_DB)")
		apiKey       = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		collectQuiz  = flag.String("collect", "", "Collect more questions for an existing quiz ID instead of generating")
		playMode     = flag.Bool("play", false, "Play the quiz interactively and grade it")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	quizforge.SetVerbose(*verbose)
	cfg := quizforge.LoadConfig()

	if *apiKey == "" {
		*apiKey = cfg.OpenAIKey
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}
	if *dbPath == "" {
		*dbPath = cfg.Database
	}

	db, err := quizforge.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()
	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	generator := quizforge.NewQuizGenerator(*apiKey, cfg.OpenAIModel, cfg.OpenAIEndpoint)
	generator.SetStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *collectQuiz != "" {
		quiz, err := db.GetQuiz(*collectQuiz)
		if err != nil {
			log.Fatalf("Failed to load quiz: %v", err)
		}
		added, err := generator.CollectMore(ctx, quiz, *numQuestions)
		if err != nil {
			log.Fatalf("Failed to collect questions: %v", err)
		}
		log.Printf("Added %d questions to quiz %s (now %d total)", added, quiz.ID, len(quiz.Questions))
		return
	}

	if *sourceFile == "" {
		log.Fatal("Source text is required. Use -source flag.")
	}
	sourceText, err := os.ReadFile(*sourceFile)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	req := quizforge.GenerationRequest{
		Title:      *title,
		SourceRef:  *sourceFile,
		SourceText: string(sourceText),
		Settings: quizforge.GenerationSettings{
			NumQuestions: *numQuestions,
			Difficulty:   quizforge.Difficulty(*difficulty),
			ChoicesCount: *choices,
			Types: map[quizforge.QuestionType]quizforge.QuestionTypeSetting{
				quizforge.TypeMultipleChoice: {Enabled: true, Quantity: *numQuestions},
			},
		},
	}

	logger, err := quizforge.NewLLMLogger(fmt.Sprintf("gen-%d", time.Now().Unix()), req)
	if err != nil {
		log.Printf("Failed to create LLM logger: %v", err)
	} else {
		generator.SetLogger(logger)
		defer logger.Close()
	}

	quiz, err := generator.GenerateQuiz(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate quiz: %v", err)
	}
	log.Printf("Quiz %s generated with %d questions", quiz.ID, len(quiz.Questions))

	if *playMode {
		playQuiz(quiz)
		if err := db.SaveQuiz(quiz); err != nil {
			log.Printf("Failed to save graded quiz: %v", err)
		}
		return
	}

	output, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal quiz: %v", err)
	}
	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Quiz saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}

var choiceLabels = "ABCDEFGH"

func playQuiz(quiz *quizforge.Quiz) {
	fmt.Printf("Quiz: %s (%d questions, difficulty %s)\n\n", quiz.Title, len(quiz.Questions), quiz.Difficulty)

	scanner := bufio.NewScanner(os.Stdin)
	for i, question := range quiz.Questions {
		fmt.Printf("Question %d/%d:\n%s\n\n", i+1, len(quiz.Questions), question.Text)
		for j, choice := range question.Choices {
			fmt.Printf("%c) %s\n", choiceLabels[j], choice)
		}
		fmt.Println()

		picked := -1
		for picked < 0 {
			fmt.Printf("Your answer (A-%c, or skip): ", choiceLabels[len(question.Choices)-1])
			if !scanner.Scan() {
				break
			}
			input := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			if input == "SKIP" || input == "" {
				break
			}
			idx := strings.Index(choiceLabels, input)
			if idx >= 0 && idx < len(question.Choices) {
				picked = idx
			} else {
				fmt.Printf("Please enter A-%c\n", choiceLabels[len(question.Choices)-1])
			}
		}
		if picked >= 0 {
			if err := quiz.SelectAnswer(i, picked); err != nil {
				log.Printf("Failed to record answer: %v", err)
			}
		}
		fmt.Println()
	}

	grade := quiz.Submit()
	fmt.Println("=== Results ===")
	fmt.Printf("Answered: %d/%d, Correct: %d\n", grade.Answered, grade.Total, grade.Correct)
	fmt.Printf("Accuracy (answered): %d%%, Accuracy (total): %d%%\n\n", grade.AccuracyAnswered, grade.AccuracyTotal)

	for i, entry := range grade.PerQuestion {
		question := quiz.Questions[i]
		status := "skipped"
		if entry.IsAnswered {
			if entry.IsCorrect {
				status = "correct"
			} else {
				status = fmt.Sprintf("incorrect (answer: %s)", question.Choices[entry.CorrectChoice])
			}
		}
		fmt.Printf("%d. %s - %s\n", i+1, question.Text, status)
		if !entry.IsCorrect && question.Explanation != "" {
			fmt.Printf("   %s\n", question.Explanation)
		}
	}
}
