package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/firebase"
	"github.com/stemsi/voxmind-backend/internal/logger"
	"github.com/stemsi/voxmind-backend/internal/service"
	"github.com/stemsi/voxmind-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// Logs go to stderr so they stay off the quiz screen.
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	validator.Setup()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "voxmind-cli needs an interactive terminal")
		os.Exit(1)
	}

	ctx := context.Background()

	// ─── Load Quizzes ──────────────────────────────────────────────────
	source := firebase.NewClient(cfg.FirebaseURL, cfg.FirebaseAuth, cfg.FirebaseTimeout, log)
	catalog := service.NewCatalogService(source, nil, cfg.CatalogTTL, log)

	fmt.Println("Loading quizzes...")
	items, err := catalog.ListItems(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load quizzes: %v\n", err)
		os.Exit(1)
	}
	if len(items) == 0 {
		fmt.Println("No quizzes available.")
		return
	}

	fmt.Println()
	for i, item := range items {
		fmt.Printf("%2d) %s\n    %s  (%s, %d questions)\n", i+1, item.Title, item.Subtitle, item.TimeLabel, item.QuestionCount)
	}

	// ─── Choose ────────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\nChoose a quiz (1-%d): ", len(items))
	line, _ := reader.ReadString('\n')
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > len(items) {
		fmt.Println("Error: invalid choice")
		return
	}

	quiz, err := catalog.Get(ctx, items[choice-1].ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open quiz: %v\n", err)
		os.Exit(1)
	}

	// ─── Play ──────────────────────────────────────────────────────────
	res, err := play(ctx, quiz, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Quiz screen failed")
	}

	if res.Reason == "" {
		log.Info().Str("quiz_id", quiz.ID).Msg("Quiz closed before finishing")
		return
	}
	log.Info().
		Str("quiz_id", quiz.ID).
		Int("score", res.Score).
		Int("total", res.Total).
		Int("percentage", res.Percentage).
		Str("reason", string(res.Reason)).
		Msg("Quiz complete")
}
