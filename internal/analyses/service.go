package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"repolens-backend/internal/quota"
	"repolens-backend/internal/shared/metrics"
	"repolens-backend/internal/shared/telemetry"
	"repolens-backend/internal/webhook"
)

// AnalysisClient calls the external analysis workflow.
type AnalysisClient interface {
	Analyze(ctx context.Context, target webhook.RepoData) (webhook.AnalysisResponse, error)
}

// Ledger tracks per-user analysis allowances.
type Ledger interface {
	Authorize(ctx context.Context, userID string) (bool, error)
	Consume(ctx context.Context, userID string) (quota.Quota, error)
}

// Service runs the analysis pipeline: authorize quota, call the workflow,
// extract the outcome, persist the record, consume quota.
type Service struct {
	Repo   Repo
	Quota  Ledger
	Client AnalysisClient
}

// Run executes one full pipeline invocation for the user. Each stage gates
// the next; the first failure is surfaced as a *PipelineError and nothing is
// retried internally. Quota is charged on success, not on attempt.
func (s *Service) Run(ctx context.Context, userID string, target webhook.RepoData) (Analysis, error) {
	if userID == "" {
		return Analysis{}, &PipelineError{Kind: KindInternal, Message: "userID is required"}
	}
	startedAt := time.Now().UTC()
	metrics.IncAnalysisStarted()

	if s.Client == nil {
		return Analysis{}, s.fail(userID, target, startedAt,
			&PipelineError{Kind: KindEndpointMisconfigured, Message: "analysis webhook is not configured"})
	}

	ok, err := s.Quota.Authorize(ctx, userID)
	if err != nil {
		return Analysis{}, s.fail(userID, target, startedAt,
			&PipelineError{Kind: KindStorageError, Message: "quota lookup failed", Err: err})
	}
	if !ok {
		return Analysis{}, s.fail(userID, target, startedAt,
			&PipelineError{Kind: KindQuotaExceeded, Message: "no analysis attempts remaining"})
	}

	resp, err := s.Client.Analyze(ctx, target)
	if err != nil {
		return Analysis{}, s.fail(userID, target, startedAt, failure(err))
	}

	outcome, err := ExtractOutcome(resp)
	if err != nil {
		// Keep the raw envelope in the logs for diagnosis; the classified
		// error still goes back to the caller.
		telemetry.Error("analysis.extract_failed", map[string]any{
			"user_id": userID,
			"repo":    target.RepoOwner + "/" + target.RepoName,
			"error":   err.Error(),
			"raw":     rawEnvelopeForLog(resp),
		})
		return Analysis{}, s.fail(userID, target, startedAt, failure(err))
	}

	analysis := Analysis{
		ID:        uuid.NewString(),
		UserID:    userID,
		Repo:      target,
		Result:    outcome,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		// Quota is not consumed: the user is not charged for a result that
		// was never durably recorded.
		return Analysis{}, s.fail(userID, target, startedAt,
			&PipelineError{Kind: KindStorageError, Message: "analysis succeeded but could not be saved", Err: err})
	}

	if _, err := s.Quota.Consume(ctx, userID); err != nil {
		// The record exists, so the run is still a success. Durability of
		// the result outranks precision of quota bookkeeping.
		telemetry.Error("quota.drift", map[string]any{
			"user_id":     userID,
			"analysis_id": analysis.ID,
			"error":       err.Error(),
		})
	}

	completedAt := time.Now().UTC()
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("analysis.completed", map[string]any{
		"user_id":     userID,
		"analysis_id": analysis.ID,
		"repo":        target.RepoOwner + "/" + target.RepoName,
		"branch":      target.Branch,
		"issue_count": len(outcome.Issues),
		"duration_ms": durationMs(startedAt, completedAt),
	})
	return analysis, nil
}

// Get returns one of the user's analyses by ID.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// List returns up to limit analyses for a user, newest first. The ordering
// is re-established here so it holds regardless of backing store behavior.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	analyses, err := s.Repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].CreatedAt.After(analyses[j].CreatedAt)
	})
	if limit > 0 && limit < len(analyses) {
		analyses = analyses[:limit]
	}
	return analyses, nil
}

func (s *Service) fail(userID string, target webhook.RepoData, startedAt time.Time, perr *PipelineError) *PipelineError {
	completedAt := time.Now().UTC()
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("analysis.failed", map[string]any{
		"user_id":     userID,
		"repo":        target.RepoOwner + "/" + target.RepoName,
		"branch":      target.Branch,
		"kind":        string(perr.Kind),
		"retryable":   perr.Kind.Retryable(),
		"message":     perr.Message,
		"duration_ms": durationMs(startedAt, completedAt),
	})
	return perr
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}

const maxRawLogBytes = 2000

func rawEnvelopeForLog(resp webhook.AnalysisResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return ""
	}
	if len(data) > maxRawLogBytes {
		data = data[:maxRawLogBytes]
	}
	return string(data)
}
