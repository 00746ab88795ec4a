package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"lifepath_planner/pkg/core/agent"
	"lifepath_planner/pkg/core/pipeline"
	"lifepath_planner/pkg/core/prompt"
	"lifepath_planner/pkg/core/questions"
	"lifepath_planner/pkg/core/store"
)

var (
	configPath    string
	showQuestions bool
	outPath       string
)

var rootCmd = &cobra.Command{
	Use:   "interpret <export-file>",
	Short: "Interpret a budget export into a unified financial model",
	Long: "Reads a budget export (CSV, XLSX, HTML, or Markdown), runs the " +
		"interpretation pipeline, and prints the resulting model as JSON. " +
		"Without provider credentials every stage runs its deterministic branch.",
	Args: cobra.ExactArgs(1),
	RunE: runInterpret,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config/stages.yaml", "provider configuration file")
	rootCmd.Flags().BoolVarP(&showQuestions, "questions", "q", false, "also print the clarification questions")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the session JSON to a file instead of stdout")
}

func runInterpret(cmd *cobra.Command, args []string) error {
	godotenv.Load()
	prompt.LoadFromDirectory("resources")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	configData, _ := os.ReadFile(configPath)
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	mgr := agent.NewManager(agentCfg)

	repo := store.NewSessionRepo(nil, filepath.Join(".cache", "budget", "sessions"))
	orch := pipeline.NewOrchestrator(mgr, repo)

	ctx := context.Background()
	session, err := orch.Interpret(ctx, data, filepath.Base(args[0]), uuid.NewString())
	if err != nil {
		return err
	}

	fmt.Printf("[INTERPRET] Session %s: %d income, %d expenses, %d debts (format: %s)\n",
		session.SessionID,
		len(session.Model.Income), len(session.Model.Expenses), len(session.Model.Debts),
		session.Draft.DetectedFormat)
	for _, warning := range session.Warnings {
		fmt.Printf("[INTERPRET] Warning (%s): %s\n", warning.Code, warning.Message)
	}

	out, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, append(out, '\n'), 0644); err != nil {
			return err
		}
		fmt.Printf("[INTERPRET] Wrote %s\n", outPath)
	} else {
		fmt.Println(string(out))
	}

	if showQuestions {
		qs := questions.Generate(session.Model)
		fmt.Printf("[INTERPRET] %d clarification questions:\n", len(qs))
		for _, q := range qs {
			fmt.Printf("  %-28s %s\n", q.FieldID, q.Text)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
}
