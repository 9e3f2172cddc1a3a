package quizforge

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the persistence collaborator: a plaintext vault holding quizzes and
// settings. Writes are durable before they return; encryption at rest is
// outside this store's concern.
type DB struct {
	db *sql.DB
}

// Vault setting keys.
const (
	SettingAPIKey       = "api_key"
	SettingModel        = "model"
	SettingDifficulty   = "difficulty"
	SettingChoicesCount = "choices_count"
)

// OpenDB opens the vault database at the given path.
func OpenDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{db: db}, nil
}

// CloseDB closes the database connection.
func (db *DB) CloseDB() error {
	return db.db.Close()
}

// CreateTables creates the vault tables if they don't exist. Questions and
// grades are stored as JSON columns on the quiz row, so a quiz is always
// written and read as one unit.
func (db *DB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source_ref TEXT,
			difficulty TEXT NOT NULL,
			choices_count INTEGER NOT NULL,
			questions TEXT NOT NULL,
			current_index INTEGER NOT NULL DEFAULT 0,
			submitted INTEGER NOT NULL DEFAULT 0,
			grade TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveQuiz inserts or replaces a quiz.
func (db *DB) SaveQuiz(quiz *Quiz) error {
	questionsJSON, err := QuestionsToJSON(quiz.Questions)
	if err != nil {
		return err
	}

	var gradeJSON sql.NullString
	if quiz.Grade != nil {
		data, err := json.Marshal(quiz.Grade)
		if err != nil {
			return fmt.Errorf("marshal grade: %w", err)
		}
		gradeJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = db.db.Exec(
		`INSERT OR REPLACE INTO quizzes
		 (id, title, source_ref, difficulty, choices_count, questions, current_index, submitted, grade, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quiz.ID, quiz.Title, quiz.SourceRef, string(quiz.Difficulty), quiz.ChoicesCount,
		questionsJSON, quiz.CurrentIndex, quiz.Submitted, gradeJSON, quiz.CreatedAt, quiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

// GetQuiz retrieves a quiz by ID.
func (db *DB) GetQuiz(id string) (*Quiz, error) {
	var (
		quiz          Quiz
		difficulty    string
		questionsJSON string
		gradeJSON     sql.NullString
	)
	err := db.db.QueryRow(
		`SELECT id, title, source_ref, difficulty, choices_count, questions, current_index, submitted, grade, created_at, updated_at
		 FROM quizzes WHERE id = ?`, id,
	).Scan(&quiz.ID, &quiz.Title, &quiz.SourceRef, &difficulty, &quiz.ChoicesCount,
		&questionsJSON, &quiz.CurrentIndex, &quiz.Submitted, &gradeJSON, &quiz.CreatedAt, &quiz.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quiz not found: %s", id)
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	quiz.Difficulty = Difficulty(difficulty)
	quiz.Questions, err = JSONToQuestions(questionsJSON)
	if err != nil {
		return nil, err
	}
	if gradeJSON.Valid {
		var grade Grade
		if err := json.Unmarshal([]byte(gradeJSON.String), &grade); err != nil {
			return nil, fmt.Errorf("unmarshal grade: %w", err)
		}
		quiz.Grade = &grade
	}
	return &quiz, nil
}

// QuizSummary is the listing row for a stored quiz.
type QuizSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	NumQuestions int       `json:"num_questions"`
	Submitted    bool      `json:"submitted"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListQuizzes returns summaries for all stored quizzes, newest first.
func (db *DB) ListQuizzes() ([]QuizSummary, error) {
	rows, err := db.db.Query(
		`SELECT id, title, questions, submitted, created_at FROM quizzes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var summaries []QuizSummary
	for rows.Next() {
		var (
			summary       QuizSummary
			questionsJSON string
		)
		if err := rows.Scan(&summary.ID, &summary.Title, &questionsJSON, &summary.Submitted, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		questions, err := JSONToQuestions(questionsJSON)
		if err != nil {
			return nil, err
		}
		summary.NumQuestions = len(questions)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quizzes: %w", err)
	}
	return summaries, nil
}

// DeleteQuiz removes a quiz from the vault.
func (db *DB) DeleteQuiz(id string) error {
	if _, err := db.db.Exec(`DELETE FROM quizzes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// SetSetting stores one vault setting.
func (db *DB) SetSetting(key, value string) error {
	if _, err := db.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting reads one vault setting, returning "" when unset.
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// QuestionsToJSON serializes a question list for the questions column.
func QuestionsToJSON(questions []QuizQuestion) (string, error) {
	data, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("marshal questions: %w", err)
	}
	return string(data), nil
}

// JSONToQuestions deserializes the questions column.
func JSONToQuestions(questionsJSON string) ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if err := json.Unmarshal([]byte(questionsJSON), &questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return questions, nil
}
