package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// ResultReconciler applies AI task output onto application records. Each
// apply is a single ownership-conditioned statement that writes only the
// target field - never status, timeline, or last_updated - so it cannot race
// with a concurrent status change. A record that no longer exists (or is
// owned by someone else) makes the apply a logged no-op: the result still
// reaches the caller through job polling.
type ResultReconciler struct {
	applications store.ApplicationStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewResultReconciler creates a new ResultReconciler.
func NewResultReconciler(applications store.ApplicationStore, log *slog.Logger) *ResultReconciler {
	if log == nil {
		log = slog.Default()
	}
	return &ResultReconciler{
		applications: applications,
		logger:       log.With(slog.String("component", "result_reconciler")),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ApplyAnalysis snapshots the analysis onto the owned application with a
// fresh generation timestamp.
func (r *ResultReconciler) ApplyAnalysis(
	ctx context.Context,
	applicationID, userID uuid.UUID,
	analysis *domain.AnalysisResult,
) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	suggestions := &domain.AISuggestions{
		AnalysisResult: *analysis,
		GeneratedAt:    r.now(),
	}

	err := r.applications.SetAISuggestions(ctx, applicationID, userID, suggestions)
	if err != nil {
		if errors.Is(err, store.ErrApplicationNotFound) {
			log.Info("skipping analysis write, no owned application matches",
				slog.String("application_id", applicationID.String()),
				slog.String("user_id", userID.String()))
			return nil
		}
		return NewServiceError("reconciler", "apply_analysis", "failed to write analysis", err)
	}

	log.Debug("applied analysis to application",
		slog.String("application_id", applicationID.String()),
		slog.Int("match_score", analysis.MatchScore))
	return nil
}

// ApplyCoverLetter writes the generated letter onto the owned application.
func (r *ResultReconciler) ApplyCoverLetter(
	ctx context.Context,
	applicationID, userID uuid.UUID,
	letter string,
) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	err := r.applications.SetCoverLetter(ctx, applicationID, userID, letter)
	if err != nil {
		if errors.Is(err, store.ErrApplicationNotFound) {
			log.Info("skipping cover letter write, no owned application matches",
				slog.String("application_id", applicationID.String()),
				slog.String("user_id", userID.String()))
			return nil
		}
		return NewServiceError("reconciler", "apply_cover_letter", "failed to write cover letter", err)
	}

	log.Debug("applied cover letter to application",
		slog.String("application_id", applicationID.String()),
		slog.Int("letter_length", len(letter)))
	return nil
}
