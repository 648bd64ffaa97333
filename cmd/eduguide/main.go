package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hmunir/eduguide/internal/command"
	"github.com/hmunir/eduguide/internal/config"
	"github.com/hmunir/eduguide/internal/provider"
	"github.com/hmunir/eduguide/internal/session"
	"github.com/hmunir/eduguide/internal/slots"
	"github.com/hmunir/eduguide/internal/typewriter"
	"github.com/hmunir/eduguide/memory"
)

func main() {
	// .env is optional; a real environment always wins over the file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rules := slots.DefaultRules()
	if cfg.RulesPath != "" {
		rules, err = slots.LoadRules(cfg.RulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid slot rules: %v\n", err)
			os.Exit(1)
		}
	}

	store := memory.NewStore(cfg.MemoryPath)
	state, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load persisted session, starting empty: %v\n", err)
	}

	client := provider.NewClient(cfg)
	ctrl := session.New(client, store, slots.New(rules), provider.Model(cfg), cfg.HistoryBudget)
	out := typewriter.New(os.Stdout, cfg.TypingDelay)

	// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nGoodbye!")
		cancel()
	}()

	fmt.Println("Welcome to EduGuide.")
	fmt.Println("Ask me about study abroad, scholarships, courses, and exams.")
	fmt.Println("Type 'exit' to quit, 'reset' to clear memory, 'summary' to see session details.")
	fmt.Println()

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("You: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case line, ok = <-inputCh:
			if !ok {
				fmt.Println("\nGoodbye!")
				break outer
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch command.Parse(line) {
		case command.Exit:
			if err := store.Save(state); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to save session: %v\n", err)
			}
			fmt.Println("Goodbye!")
			break outer
		case command.Reset:
			if err := store.Reset(state); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to persist reset: %v\n", err)
			}
			fmt.Println("Memory cleared.")
			continue
		case command.Summary:
			fmt.Println(command.RenderSummary(state))
			continue
		}

		reply := ctrl.HandleTurn(ctx, state, line)
		fmt.Print("EduGuide: ")
		if err := out.Play(reply); err != nil {
			fmt.Fprintf(os.Stderr, "warning: output error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
