package emailsettings

import (
	"context"
	"errors"
	"time"

	emailsettingserrors "driftpro/internal/emailsettings/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=emailsettings_service.go -destination=mock/emailsettings_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, companyID string) (SettingsResponse, error)
	Update(ctx context.Context, companyID string, req UpdateSettingsRequest) (SettingsResponse, error)
	GetLogs(ctx context.Context, companyID string, limit int) ([]LogResponse, error)
	SendTest(ctx context.Context, companyID, to string) (LogResponse, error)

	// SendNotificationEmail is the consumer-facing path: it respects the
	// enabled flag, the per-kind toggles and the hourly budget, and logs
	// every attempt.
	SendNotificationEmail(ctx context.Context, companyID, kind, to, subject, body string) error
}

type service struct {
	repo   Repository
	mailer Mailer
	logger *zap.Logger
}

func NewService(repo Repository, mailer Mailer, logger ...*zap.Logger) Service {
	l := zap.L().Named("emailsettings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("emailsettings.service")
	}
	return &service{repo: repo, mailer: mailer, logger: l}
}

// Get returns the stored settings, or the defaults when nothing was
// saved yet. The password never leaves the service.
func (s *service) Get(ctx context.Context, companyID string) (SettingsResponse, error) {
	settings, err := s.loadOrDefault(ctx, companyID)
	if err != nil {
		return SettingsResponse{}, err
	}
	return mapToResponse(settings), nil
}

func (s *service) Update(ctx context.Context, companyID string, req UpdateSettingsRequest) (SettingsResponse, error) {
	settings, err := s.loadOrDefault(ctx, companyID)
	if err != nil {
		return SettingsResponse{}, err
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.FromEmail != nil {
		settings.FromEmail = *req.FromEmail
	}
	if req.FromName != nil {
		settings.FromName = *req.FromName
	}
	if req.SMTPHost != nil {
		settings.SMTPHost = *req.SMTPHost
	}
	if req.SMTPPort != nil {
		settings.SMTPPort = *req.SMTPPort
	}
	if req.SMTPUser != nil {
		settings.SMTPUser = *req.SMTPUser
	}
	if req.SMTPPassword != nil {
		settings.SMTPPassword = *req.SMTPPassword
	}
	if req.RetryAttempts != nil {
		settings.RetryAttempts = *req.RetryAttempts
	}
	if req.MaxEmailsPerHour != nil {
		settings.MaxEmailsPerHour = *req.MaxEmailsPerHour
	}
	if req.NotifyOnAbsence != nil {
		settings.NotifyOnAbsence = *req.NotifyOnAbsence
	}
	if req.NotifyOnVacation != nil {
		settings.NotifyOnVacation = *req.NotifyOnVacation
	}
	if req.NotifyOnDeviation != nil {
		settings.NotifyOnDeviation = *req.NotifyOnDeviation
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return SettingsResponse{}, err
	}

	s.logger.Info("email settings updated",
		zap.String("company_id", companyID),
		zap.Bool("enabled", settings.Enabled),
	)
	return mapToResponse(settings), nil
}

func (s *service) GetLogs(ctx context.Context, companyID string, limit int) ([]LogResponse, error) {
	logs, err := s.repo.FindLogs(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}
	res := make([]LogResponse, len(logs))
	for i, l := range logs {
		res[i] = mapLogToResponse(l)
	}
	return res, nil
}

// SendTest sends with the stored settings even when sending is disabled,
// so a company can verify credentials before switching email on.
func (s *service) SendTest(ctx context.Context, companyID, to string) (LogResponse, error) {
	settings, err := s.loadOrDefault(ctx, companyID)
	if err != nil {
		return LogResponse{}, err
	}

	subject := "DriftPro test email"
	body := "<p>This is a test email from DriftPro. Your SMTP settings work.</p>"

	sendErr := s.sendWithRetry(settings, to, subject, body)
	log := s.recordAttempt(ctx, settings.CompanyID, to, subject, sendErr)

	if sendErr != nil {
		return mapLogToResponse(log), emailsettingserrors.ErrSendFailed
	}
	return mapLogToResponse(log), nil
}

func (s *service) SendNotificationEmail(ctx context.Context, companyID, kind, to, subject, body string) error {
	settings, err := s.loadOrDefault(ctx, companyID)
	if err != nil {
		return err
	}
	if !settings.Enabled {
		return emailsettingserrors.ErrEmailDisabled
	}
	if !kindEnabled(settings, kind) {
		return nil
	}

	sent, err := s.repo.CountSentSince(ctx, companyID, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		return err
	}
	if sent >= int64(settings.MaxEmailsPerHour) {
		s.logger.Warn("email budget exhausted",
			zap.String("company_id", companyID),
			zap.Int64("sent_last_hour", sent),
		)
		return emailsettingserrors.ErrHourlyBudgetExceeded
	}

	sendErr := s.sendWithRetry(settings, to, subject, body)
	s.recordAttempt(ctx, settings.CompanyID, to, subject, sendErr)

	if sendErr != nil {
		return emailsettingserrors.ErrSendFailed
	}
	return nil
}

func (s *service) sendWithRetry(settings *Settings, to, subject, body string) error {
	attempts := settings.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = s.mailer.Send(settings, to, subject, body)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// recordAttempt logs the attempt either way; a failing insert only warns,
// the send outcome is already decided.
func (s *service) recordAttempt(ctx context.Context, companyID uuid.UUID, to, subject string, sendErr error) Log {
	log := Log{
		ID:        uuid.New(),
		CompanyID: companyID,
		Recipient: to,
		Subject:   subject,
		Status:    LogStatusSent,
		CreatedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		log.Status = LogStatusFailed
		log.Error = sendErr.Error()
	}
	if err := s.repo.CreateLog(ctx, &log); err != nil {
		s.logger.Warn("email log write failed", zap.Error(err))
	}
	return log
}

func (s *service) loadOrDefault(ctx context.Context, companyID string) (*Settings, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, emailsettingserrors.ErrInvalidCompanyID
	}
	settings, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultSettings(companyUUID), nil
		}
		return nil, err
	}
	return settings, nil
}

func kindEnabled(settings *Settings, kind string) bool {
	switch kind {
	case "absence":
		return settings.NotifyOnAbsence
	case "vacation":
		return settings.NotifyOnVacation
	case "deviation":
		return settings.NotifyOnDeviation
	}
	return true
}

func mapToResponse(s *Settings) SettingsResponse {
	resp := SettingsResponse{
		Enabled:           s.Enabled,
		FromEmail:         s.FromEmail,
		FromName:          s.FromName,
		SMTPHost:          s.SMTPHost,
		SMTPPort:          s.SMTPPort,
		SMTPUser:          s.SMTPUser,
		PasswordSet:       s.SMTPPassword != "",
		RetryAttempts:     s.RetryAttempts,
		MaxEmailsPerHour:  s.MaxEmailsPerHour,
		NotifyOnAbsence:   s.NotifyOnAbsence,
		NotifyOnVacation:  s.NotifyOnVacation,
		NotifyOnDeviation: s.NotifyOnDeviation,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapLogToResponse(l Log) LogResponse {
	return LogResponse{
		ID:        l.ID.String(),
		Recipient: l.Recipient,
		Subject:   l.Subject,
		Status:    l.Status,
		Error:     l.Error,
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
	}
}
