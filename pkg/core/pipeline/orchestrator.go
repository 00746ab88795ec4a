// Package pipeline wires the interpretation stages end to end:
// Reader -> Format Classifier -> Sign Normalizer -> Line Classifier ->
// Label Disambiguator -> (optional) Enricher -> Result Validator -> store.
//
// The flow is single-request-scoped; nothing is shared across concurrent
// uploads and every persisted write is a whole-session replacement, so no
// locking discipline is needed. The two service calls are the only suspension
// points and both fall through to deterministic branches on any failure.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"lifepath_planner/pkg/core/agent"
	"lifepath_planner/pkg/core/classify"
	"lifepath_planner/pkg/core/enrich"
	"lifepath_planner/pkg/core/ingest"
	"lifepath_planner/pkg/core/normalize"
	"lifepath_planner/pkg/core/patch"
	"lifepath_planner/pkg/core/store"
	"lifepath_planner/pkg/core/validate"
	"lifepath_planner/pkg/models"
)

// Orchestrator manages the end-to-end interpretation flow for one upload.
type Orchestrator struct {
	mgr  *agent.Manager
	repo *store.SessionRepo
}

// NewOrchestrator creates an orchestrator with its dependencies.
func NewOrchestrator(mgr *agent.Manager, repo *store.SessionRepo) *Orchestrator {
	return &Orchestrator{mgr: mgr, repo: repo}
}

// Interpret runs the full pipeline over uploaded file bytes and persists the
// result under sessionID. The returned session always holds a usable model;
// service failures degrade to the deterministic branches, never to an error.
func (o *Orchestrator) Interpret(ctx context.Context, data []byte, filename string, sessionID string) (*store.Session, error) {
	fmt.Printf("[PIPELINE] Interpreting %s (session %s)...\n", filename, sessionID)
	start := time.Now()

	// 1. Ingestion. The reader degrades to notes, so an error here means the
	// file itself was undecodable and the caller should hear about it.
	draft, err := ingest.Read(data, filename)
	if err != nil {
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Printf("[INGEST] %d lines, format=%s score=%v\n",
		len(draft.Lines), draft.DetectedFormat, draft.FormatHints["format_score"])

	// 2. Sign normalization, service strategy first when configured.
	normalized := o.normalize(ctx, draft)

	// 3+4. Classification and labeling.
	model := classify.Classify(normalized)

	// 5. Optional enrichment (additive-or-noop).
	model = o.enrich(ctx, model)

	// 6. Advisory validation against the pre-normalization draft.
	warnings := validate.CheckModel(model, draft)
	for _, w := range warnings {
		model.Notes = appendNote(model.Notes, w.Message)
	}

	session := &store.Session{
		SessionID: sessionID,
		Draft:     draft,
		Model:     model,
		Warnings:  warnings,
	}
	if err := o.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("storage failed: %w", err)
	}

	fmt.Printf("[PIPELINE] Completed %s in %v\n", sessionID, time.Since(start))
	return session, nil
}

// normalize picks the configured strategy and falls back to the deterministic
// heuristic on any service failure.
func (o *Orchestrator) normalize(ctx context.Context, draft *models.DraftModel) *models.DraftModel {
	heuristic := &normalize.HeuristicNormalizer{}

	provider, ok := o.mgr.ProviderForStage(agent.StageNormalization)
	if ok {
		svc := normalize.NewServiceNormalizer(provider, o.mgr.Options(agent.StageNormalization), o.mgr.Timeout(agent.StageNormalization))
		out, err := svc.Normalize(ctx, draft)
		if err == nil {
			return out
		}
		fmt.Printf("[NORMALIZE] Service strategy failed, using heuristic: %v\n", err)
	}

	out, _ := heuristic.Normalize(ctx, draft) // the heuristic cannot fail
	return out
}

// enrich runs the optional second pass when a provider is configured.
func (o *Orchestrator) enrich(ctx context.Context, model *models.UnifiedModel) *models.UnifiedModel {
	provider, ok := o.mgr.ProviderForStage(agent.StageEnrichment)
	if !ok {
		return model
	}
	enricher := enrich.NewEnricher(provider, o.mgr.Options(agent.StageEnrichment), o.mgr.Timeout(agent.StageEnrichment))
	return enricher.Enrich(ctx, model)
}

// LoadSession fetches a previously interpreted session.
func (o *Orchestrator) LoadSession(ctx context.Context, sessionID string) (*store.Session, error) {
	return o.repo.Load(ctx, sessionID)
}

// ReEnrich loads a persisted session and runs the enrichment pass again.
// Ids are stable, so answers already applied keep addressing their fields.
func (o *Orchestrator) ReEnrich(ctx context.Context, sessionID string) (*store.Session, error) {
	session, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Model = o.enrich(ctx, session.Model)
	session.Warnings = validate.CheckModel(session.Model, session.Draft)
	if err := o.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("storage failed: %w", err)
	}
	return session, nil
}

// ApplyAnswers validates a clarification payload against a persisted session
// and, when clean, applies it and persists the patched model. Validation
// errors come back as the full batch, not first-fail.
func (o *Orchestrator) ApplyAnswers(ctx context.Context, sessionID string, answers map[string]interface{}) (*store.Session, []patch.FieldError, error) {
	session, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if errs := patch.Validate(session.Model, answers); len(errs) > 0 {
		return nil, errs, nil
	}

	session.Model = patch.Apply(session.Model, answers)
	if err := o.repo.Save(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("storage failed: %w", err)
	}
	return session, nil, nil
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "; " + note
}
