package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"lifepath_planner/pkg/api/budget"
	"lifepath_planner/pkg/api/config"
	"lifepath_planner/pkg/core/agent"
	"lifepath_planner/pkg/core/prompt"
	"lifepath_planner/pkg/core/store"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/stages.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Session storage: Postgres when DATABASE_URL is set, files otherwise
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Database unavailable, using file storage: %v\n", err)
	}
	defer store.Close()
	repo := store.NewSessionRepo(store.GetPool(), filepath.Join(".cache", "budget", "sessions"))

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Budget interpretation endpoints
	budget.InitHandler(agentMgr, repo)
	http.HandleFunc("/api/budget/upload", budget.HandleUpload)
	http.HandleFunc("/api/budget/model", budget.HandleModel)
	http.HandleFunc("/api/budget/questions", budget.HandleQuestions)
	http.HandleFunc("/api/budget/answers", budget.HandleAnswers)
	http.HandleFunc("/api/budget/enrich", budget.HandleReEnrich)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - POST /api/budget/upload")
	fmt.Println("  - GET  /api/budget/model?session=<id>")
	fmt.Println("  - GET  /api/budget/questions?session=<id>")
	fmt.Println("  - POST /api/budget/answers")
	fmt.Println("  - POST /api/budget/enrich?session=<id>")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
