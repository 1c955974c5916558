package survey

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	surveyerrors "driftpro/internal/survey/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=survey_service.go -destination=mock/survey_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, creatorID string, req CreateSurveyRequest) (SurveyResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListSurveysFilter) ([]SurveyResponse, error)
	GetByID(ctx context.Context, companyID, id string) (SurveyResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateSurveyRequest) (SurveyResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	Activate(ctx context.Context, companyID, id string) (SurveyResponse, error)
	Complete(ctx context.Context, companyID, id string) (SurveyResponse, error)
	Archive(ctx context.Context, companyID, id string) (SurveyResponse, error)

	Submit(ctx context.Context, companyID, respondentID, surveyID string, req SubmitSurveyRequest) (SubmissionResponse, error)
	GetSubmissions(ctx context.Context, companyID, surveyID string) ([]SubmissionResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("survey.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("survey.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, creatorID string, req CreateSurveyRequest) (SurveyResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SurveyResponse{}, surveyerrors.ErrInvalidCompanyID
	}
	creatorUUID, err := uuid.Parse(creatorID)
	if err != nil {
		return SurveyResponse{}, surveyerrors.ErrSurveyNotFound
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return SurveyResponse{}, err
	}

	sv := &Survey{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Status:         StatusDraft,
		TargetAudience: req.TargetAudience,
		CreatedBy:      creatorUUID,
	}
	sv.Questions, _ = json.Marshal(questions)

	if err := s.repo.Create(ctx, sv); err != nil {
		return SurveyResponse{}, err
	}

	s.logger.Info("create survey success",
		zap.String("survey_id", sv.ID.String()),
		zap.Int("questions", len(questions)),
	)
	return mapToResponse(*sv), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListSurveysFilter) ([]SurveyResponse, error) {
	surveys, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	res := make([]SurveyResponse, len(surveys))
	for i, sv := range surveys {
		res[i] = mapToResponse(sv)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (SurveyResponse, error) {
	sv, err := s.load(ctx, s.repo, companyID, id)
	if err != nil {
		return SurveyResponse{}, err
	}
	return mapToResponse(*sv), nil
}

// Update applies a partial merge. Questions are only editable while the
// survey is a draft; answered surveys keep the shape responses refer to.
func (s *service) Update(ctx context.Context, companyID, id string, req UpdateSurveyRequest) (SurveyResponse, error) {
	sv, err := s.load(ctx, s.repo, companyID, id)
	if err != nil {
		return SurveyResponse{}, err
	}

	if sv.Status != StatusDraft {
		return SurveyResponse{}, surveyerrors.ErrSurveyNotEditable
	}

	if req.Title != nil {
		sv.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		sv.Description = *req.Description
	}
	if req.TargetAudience != nil {
		sv.TargetAudience = *req.TargetAudience
	}
	if req.Questions != nil {
		questions, err := buildQuestions(*req.Questions)
		if err != nil {
			return SurveyResponse{}, err
		}
		sv.Questions, _ = json.Marshal(questions)
	}

	if err := s.repo.Update(ctx, sv); err != nil {
		return SurveyResponse{}, err
	}
	return mapToResponse(*sv), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.load(ctx, s.repo, companyID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) Activate(ctx context.Context, companyID, id string) (SurveyResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusActive)
}

func (s *service) Complete(ctx context.Context, companyID, id string) (SurveyResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusComplete)
}

func (s *service) Archive(ctx context.Context, companyID, id string) (SurveyResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusArchived)
}

// Submit stores the answers and bumps the response counter in one
// transaction. A respondent answering twice hits the unique index and
// gets a conflict, never a second count.
func (s *service) Submit(ctx context.Context, companyID, respondentID, surveyID string, req SubmitSurveyRequest) (SubmissionResponse, error) {
	respondentUUID, err := uuid.Parse(respondentID)
	if err != nil {
		return SubmissionResponse{}, surveyerrors.ErrSurveyNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SubmissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sv, err := s.load(ctx, qtx, companyID, surveyID)
	if err != nil {
		return SubmissionResponse{}, err
	}
	if sv.Status != StatusActive {
		return SubmissionResponse{}, surveyerrors.ErrSurveyNotActive
	}
	if err := validateAnswers(sv, req.Answers); err != nil {
		return SubmissionResponse{}, err
	}

	sub := &Submission{
		ID:           uuid.New(),
		CompanyID:    sv.CompanyID,
		SurveyID:     sv.ID,
		RespondentID: respondentUUID,
	}
	sub.Answers, _ = json.Marshal(req.Answers)

	if err := qtx.CreateSubmission(ctx, sub); err != nil {
		if isUniqueViolation(err) {
			return SubmissionResponse{}, surveyerrors.ErrAlreadySubmitted
		}
		return SubmissionResponse{}, err
	}
	if err := qtx.IncrementResponseCount(ctx, companyID, surveyID); err != nil {
		return SubmissionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SubmissionResponse{}, err
	}

	s.logger.Info("survey submission recorded",
		zap.String("survey_id", surveyID),
		zap.String("respondent_id", respondentID),
	)
	return mapSubmissionToResponse(*sub), nil
}

func (s *service) GetSubmissions(ctx context.Context, companyID, surveyID string) ([]SubmissionResponse, error) {
	if _, err := s.load(ctx, s.repo, companyID, surveyID); err != nil {
		return nil, err
	}
	subs, err := s.repo.FindSubmissions(ctx, companyID, surveyID)
	if err != nil {
		return nil, err
	}
	res := make([]SubmissionResponse, len(subs))
	for i, sub := range subs {
		res[i] = mapSubmissionToResponse(sub)
	}
	return res, nil
}

func (s *service) transitionStatus(ctx context.Context, companyID, id, targetStatus string) (SurveyResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SurveyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sv, err := s.load(ctx, qtx, companyID, id)
	if err != nil {
		return SurveyResponse{}, err
	}

	// Repeating a terminal transition is a no-op success.
	if sv.Status == targetStatus && (targetStatus == StatusArchived || targetStatus == StatusComplete) {
		return mapToResponse(*sv), nil
	}
	if !isAllowedStatusTransition(sv.Status, targetStatus) {
		return SurveyResponse{}, surveyerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	sv.Status = targetStatus
	switch targetStatus {
	case StatusActive:
		sv.ActivatedAt = &now
	case StatusComplete, StatusArchived:
		if sv.ClosedAt == nil {
			sv.ClosedAt = &now
		}
	}

	if err := qtx.Update(ctx, sv); err != nil {
		return SurveyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SurveyResponse{}, err
	}
	return mapToResponse(*sv), nil
}

// Archiving is allowed from any state; activation only from draft.
func isAllowedStatusTransition(current, target string) bool {
	if target == StatusArchived {
		return true
	}
	switch current {
	case StatusDraft:
		return target == StatusActive
	case StatusActive:
		return target == StatusComplete
	}
	return false
}

func (s *service) load(ctx context.Context, repo Repository, companyID, id string) (*Survey, error) {
	sv, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, surveyerrors.ErrSurveyNotFound
		}
		return nil, err
	}
	return sv, nil
}

func buildQuestions(inputs []QuestionInput) ([]Question, error) {
	questions := make([]Question, len(inputs))
	for i, in := range inputs {
		if !ValidQuestionType(in.Type) {
			return nil, surveyerrors.ErrInvalidQuestion
		}
		needsOptions := in.Type == QuestionTypeSingleChoice || in.Type == QuestionTypeMultipleChoice
		if needsOptions && len(in.Options) < 2 {
			return nil, surveyerrors.ErrInvalidQuestion
		}
		questions[i] = Question{
			ID:       uuid.NewString(),
			Text:     strings.TrimSpace(in.Text),
			Type:     in.Type,
			Options:  in.Options,
			Required: in.Required,
		}
	}
	return questions, nil
}

func validateAnswers(sv *Survey, answers map[string]any) error {
	questions := questionsOf(sv)
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for id := range answers {
		if _, ok := byID[id]; !ok {
			return surveyerrors.ErrUnknownQuestion
		}
	}
	for _, q := range questions {
		if q.Required {
			if _, ok := answers[q.ID]; !ok {
				return surveyerrors.ErrMissingRequiredAnswer
			}
		}
	}
	return nil
}

func questionsOf(sv *Survey) []Question {
	var questions []Question
	_ = json.Unmarshal(sv.Questions, &questions)
	return questions
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(sv Survey) SurveyResponse {
	resp := SurveyResponse{
		ID:             sv.ID.String(),
		Title:          sv.Title,
		Description:    sv.Description,
		Questions:      questionsOf(&sv),
		Status:         sv.Status,
		TargetAudience: sv.TargetAudience,
		ResponseCount:  sv.ResponseCount,
		CreatedBy:      sv.CreatedBy.String(),
		CreatedAt:      sv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if sv.ActivatedAt != nil {
		at := sv.ActivatedAt.UTC().Format(time.RFC3339)
		resp.ActivatedAt = &at
	}
	if sv.ClosedAt != nil {
		at := sv.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &at
	}
	return resp
}

func mapSubmissionToResponse(sub Submission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:           sub.ID.String(),
		SurveyID:     sub.SurveyID.String(),
		RespondentID: sub.RespondentID.String(),
		Answers:      map[string]any{},
		CreatedAt:    sub.CreatedAt.UTC().Format(time.RFC3339),
	}
	_ = json.Unmarshal(sub.Answers, &resp.Answers)
	return resp
}
