package task

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/generation"
)

// mockReconciler implements ResultReconciler with function fields for
// test-specific behavior.
type mockReconciler struct {
	applyAnalysisFn    func(ctx context.Context, applicationID, userID uuid.UUID, analysis *domain.AnalysisResult) error
	applyCoverLetterFn func(ctx context.Context, applicationID, userID uuid.UUID, letter string) error

	analysisCalls    int
	coverLetterCalls int
}

func (m *mockReconciler) ApplyAnalysis(
	ctx context.Context,
	applicationID, userID uuid.UUID,
	analysis *domain.AnalysisResult,
) error {
	m.analysisCalls++
	if m.applyAnalysisFn != nil {
		return m.applyAnalysisFn(ctx, applicationID, userID, analysis)
	}
	return nil
}

func (m *mockReconciler) ApplyCoverLetter(
	ctx context.Context,
	applicationID, userID uuid.UUID,
	letter string,
) error {
	m.coverLetterCalls++
	if m.applyCoverLetterFn != nil {
		return m.applyCoverLetterFn(ctx, applicationID, userID, letter)
	}
	return nil
}

// mockResumeService implements ResumeService.
type mockResumeService struct {
	getResumeFn func(ctx context.Context, id, userID uuid.UUID) (*domain.Resume, error)
}

func (m *mockResumeService) GetResume(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Resume, error) {
	if m.getResumeFn != nil {
		return m.getResumeFn(ctx, id, userID)
	}
	return nil, errors.New("getResumeFn not set")
}

// mockUserDirectory implements UserDirectory.
type mockUserDirectory struct {
	getUserFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserDirectory) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, id)
	}
	return &domain.User{ID: id, Name: "Jordan Applicant"}, nil
}

// mockGenerator implements Generator.
type mockGenerator struct {
	analyzeResumeFn       func(ctx context.Context, resumeText, jobDescription string) (*domain.AnalysisResult, error)
	generateCoverLetterFn func(ctx context.Context, req generation.CoverLetterRequest) (string, error)
}

func (m *mockGenerator) AnalyzeResume(
	ctx context.Context,
	resumeText, jobDescription string,
) (*domain.AnalysisResult, error) {
	if m.analyzeResumeFn != nil {
		return m.analyzeResumeFn(ctx, resumeText, jobDescription)
	}
	return &domain.AnalysisResult{
		Keywords:              []string{"go"},
		MissingKeywords:       []string{},
		SkillsToEmphasize:     []string{},
		ExperienceToHighlight: []string{},
		RecommendedChanges:    []string{},
		MatchScore:            80,
	}, nil
}

func (m *mockGenerator) GenerateCoverLetter(
	ctx context.Context,
	req generation.CoverLetterRequest,
) (string, error) {
	if m.generateCoverLetterFn != nil {
		return m.generateCoverLetterFn(ctx, req)
	}
	return "Dear Hiring Manager,", nil
}

// mockTaskStore implements TaskStore in memory for runner tests.
type mockTaskStore struct {
	mu sync.Mutex

	saved     map[uuid.UUID]Task
	statuses  map[uuid.UUID]TaskStatus
	errors    map[uuid.UUID]string
	results   map[uuid.UUID][]byte
	pending   []Task
	procesing []Task

	saveErr error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{
		saved:    make(map[uuid.UUID]Task),
		statuses: make(map[uuid.UUID]TaskStatus),
		errors:   make(map[uuid.UUID]string),
		results:  make(map[uuid.UUID][]byte),
	}
}

func (s *mockTaskStore) SaveTask(ctx context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[t.ID()] = t
	s.statuses[t.ID()] = TaskStatusPending
	return nil
}

func (s *mockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[taskID] = status
	s.errors[taskID] = errorMsg
	return nil
}

func (s *mockTaskStore) CompleteTaskWithResult(
	ctx context.Context,
	taskID uuid.UUID,
	result []byte,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[taskID] = TaskStatusCompleted
	s.results[taskID] = result
	s.errors[taskID] = ""
	return nil
}

func (s *mockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.pending...), nil
}

func (s *mockTaskStore) GetProcessingTasks(
	ctx context.Context,
	olderThan time.Duration,
) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.procesing...), nil
}

func (s *mockTaskStore) GetTaskInfo(ctx context.Context, taskID uuid.UUID) (*TaskInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.saved[taskID]
	if !ok {
		return nil, errors.New("task not found")
	}
	return &TaskInfo{
		ID:           t.ID(),
		UserID:       t.UserID(),
		Type:         t.Type(),
		Status:       s.statuses[taskID],
		ErrorMessage: s.errors[taskID],
		Result:       s.results[taskID],
	}, nil
}

func (s *mockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}

func (s *mockTaskStore) status(taskID uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[taskID]
}

func (s *mockTaskStore) result(taskID uuid.UUID) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[taskID]
}
