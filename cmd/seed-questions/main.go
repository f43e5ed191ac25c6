package main

import (
	"context"
	"fmt"
	"time"

	"github.com/adiborse/online-examination-system/internal/config"
	"github.com/adiborse/online-examination-system/internal/database"
	"github.com/adiborse/online-examination-system/internal/logger"
	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/repository"
)

// sampleQuestions is a small starter bank so a fresh install has something
// to hand out on the first exam attempt.
var sampleQuestions = []model.Question{
	{
		QuestionText:  "What is the capital of France?",
		Options:       []string{"London", "Berlin", "Paris", "Madrid"},
		CorrectAnswer: 2,
		Difficulty:    model.DifficultyEasy,
		Subject:       "Geography",
		Category:      "World Capitals",
	},
	{
		QuestionText:  "Which programming language is primarily used for web development?",
		Options:       []string{"Python", "JavaScript", "C++", "Java"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
		Subject:       "Computer Science",
		Category:      "Programming",
	},
	{
		QuestionText:  "What is 2 + 2?",
		Options:       []string{"3", "4", "5", "6"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
		Subject:       "Mathematics",
		Category:      "Basic Math",
	},
	{
		QuestionText:  "Which planet is closest to the Sun?",
		Options:       []string{"Venus", "Mercury", "Earth", "Mars"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
		Subject:       "Science",
		Category:      "Astronomy",
	},
	{
		QuestionText:  "What does HTML stand for?",
		Options:       []string{"Hyper Text Markup Language", "High Tech Modern Language", "Home Tool Markup Language", "Hyperlink and Text Markup Language"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyMedium,
		Subject:       "Computer Science",
		Category:      "Web Development",
	},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Println("=== Seeding Sample Questions ===")

	count, err := questionRepo.CountActive(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count questions")
	}
	if count > 0 {
		fmt.Printf("Questions already exist in database (%d active), nothing to do\n", count)
		return
	}

	// Seeded questions are attributed to the first admin account.
	var adminID int
	err = pool.QueryRow(ctx,
		`SELECT id FROM users WHERE role = 'admin' ORDER BY id ASC LIMIT 1`,
	).Scan(&adminID)
	if err != nil {
		log.Fatal().Err(err).Msg("No admin account found; run create-admin first")
	}

	for i := range sampleQuestions {
		q := sampleQuestions[i]
		q.IsActive = true
		q.CreatedBy = adminID
		if err := questionRepo.Create(ctx, &q); err != nil {
			log.Fatal().Err(err).Str("question", q.QuestionText).Msg("Failed to insert question")
		}
	}

	fmt.Printf("Inserted %d sample questions\n", len(sampleQuestions))
}
