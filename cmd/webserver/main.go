package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"quizforge"

	"github.com/gorilla/sessions"
)

const sessionName = "quizforge"

// Server serves quiz generation and quiz taking over a JSON API. The current
// quiz and navigation position are tracked per browser session.
type Server struct {
	db        *quizforge.DB
	generator *quizforge.QuizGenerator
	store     *sessions.CookieStore
}

func main() {
	quizforge.SetVerbose(true)
	cfg := quizforge.LoadConfig()

	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	db, err := quizforge.OpenDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()
	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	generator := quizforge.NewQuizGenerator(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIEndpoint)
	generator.SetStore(db)

	srv := &Server{
		db:        db,
		generator: generator,
		store:     sessions.NewCookieStore([]byte(cfg.SessionKey)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /quizzes", srv.handleListQuizzes)
	mux.HandleFunc("POST /quizzes", srv.handleCreateQuiz)
	mux.HandleFunc("GET /quizzes/{id}", srv.handleGetQuiz)
	mux.HandleFunc("DELETE /quizzes/{id}", srv.handleDeleteQuiz)
	mux.HandleFunc("POST /quizzes/{id}/start", srv.handleStartQuiz)
	mux.HandleFunc("POST /quizzes/{id}/collect", srv.handleCollectMore)
	mux.HandleFunc("POST /session/answer", srv.handleAnswer)
	mux.HandleFunc("POST /session/submit", srv.handleSubmit)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type createQuizRequest struct {
	Title        string `json:"title"`
	SourceText   string `json:"source_text"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	ChoicesCount int    `json:"choices_count"`
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var body createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(body.SourceText) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source_text is required"})
		return
	}
	if body.NumQuestions <= 0 {
		body.NumQuestions = 10
	}
	if body.ChoicesCount <= 0 {
		body.ChoicesCount = 4
	}
	if body.Difficulty == "" {
		body.Difficulty = string(quizforge.DifficultyMedium)
	}

	req := quizforge.GenerationRequest{
		Title:      body.Title,
		SourceRef:  "inline",
		SourceText: body.SourceText,
		Settings: quizforge.GenerationSettings{
			NumQuestions: body.NumQuestions,
			Difficulty:   quizforge.Difficulty(body.Difficulty),
			ChoicesCount: body.ChoicesCount,
			Types: map[quizforge.QuestionType]quizforge.QuestionTypeSetting{
				quizforge.TypeMultipleChoice: {Enabled: true, Quantity: body.NumQuestions},
			},
		},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	quiz, err := s.generator.GenerateQuiz(ctx, req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.ListQuizzes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := s.db.GetQuiz(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteQuiz(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("id")
	if _, err := s.db.GetQuiz(quizID); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	session, _ := s.store.Get(r, sessionName)
	session.Values["quiz_id"] = quizID
	session.Values["current"] = 0
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"quiz_id": quizID})
}

type collectRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleCollectMore(w http.ResponseWriter, r *http.Request) {
	var body collectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	quiz, err := s.db.GetQuiz(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	added, err := s.generator.CollectMore(ctx, quiz, body.Count)
	if err != nil {
		if quizforge.IsKind(err, quizforge.ErrNoNewQuestions) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added, "total": len(quiz.Questions)})
}

type answerRequest struct {
	Question int `json:"question"`
	Choice   int `json:"choice"`
}

// sessionQuiz loads the quiz bound to the caller's session.
func (s *Server) sessionQuiz(r *http.Request) (*quizforge.Quiz, *sessions.Session, error) {
	session, _ := s.store.Get(r, sessionName)
	quizID, ok := session.Values["quiz_id"].(string)
	if !ok || quizID == "" {
		return nil, nil, &quizforge.PipelineError{Kind: quizforge.ErrEmptyInput, Message: "no quiz started in this session"}
	}
	quiz, err := s.db.GetQuiz(quizID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, session, nil
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	quiz, session, err := s.sessionQuiz(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := quiz.SelectAnswer(body.Question, body.Choice); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	quiz.CurrentIndex = body.Question
	if err := s.db.SaveQuiz(quiz); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	session.Values["current"] = body.Question
	session.Save(r, w)
	writeJSON(w, http.StatusOK, map[string]int{"question": body.Question, "choice": body.Choice})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	quiz, _, err := s.sessionQuiz(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	grade := quiz.Submit()
	if err := s.db.SaveQuiz(quiz); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, grade)
}
