package emailsettings

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	emailsettingserrors "driftpro/internal/emailsettings/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findByCompanyFn  func(ctx context.Context, companyID string) (*Settings, error)
	upsertFn         func(ctx context.Context, s *Settings) error
	createLogFn      func(ctx context.Context, l *Log) error
	findLogsFn       func(ctx context.Context, companyID string, limit int) ([]Log, error)
	countSentSinceFn func(ctx context.Context, companyID string, since time.Time) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) FindByCompany(ctx context.Context, companyID string) (*Settings, error) {
	return f.findByCompanyFn(ctx, companyID)
}
func (f *fakeRepo) Upsert(ctx context.Context, s *Settings) error { return f.upsertFn(ctx, s) }
func (f *fakeRepo) CreateLog(ctx context.Context, l *Log) error {
	if f.createLogFn != nil {
		return f.createLogFn(ctx, l)
	}
	return nil
}
func (f *fakeRepo) FindLogs(ctx context.Context, companyID string, limit int) ([]Log, error) {
	return f.findLogsFn(ctx, companyID, limit)
}
func (f *fakeRepo) CountSentSince(ctx context.Context, companyID string, since time.Time) (int64, error) {
	return f.countSentSinceFn(ctx, companyID, since)
}

type fakeMailer struct {
	calls   int
	failFor int
}

func (f *fakeMailer) Send(settings *Settings, to, subject, htmlBody string) error {
	f.calls++
	if f.calls <= f.failFor {
		return errors.New("dial tcp: connection refused")
	}
	return nil
}

func enabledSettings(companyID uuid.UUID) *Settings {
	s := defaultSettings(companyID)
	s.Enabled = true
	s.SMTPUser = "post@driftpro.no"
	s.SMTPPassword = "hemmelig"
	return s
}

func TestService_Get_ReturnsDefaultsWhenUnset(t *testing.T) {
	repo := &fakeRepo{
		findByCompanyFn: func(ctx context.Context, companyID string) (*Settings, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo, &fakeMailer{})

	resp, err := svc.Get(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.Equal(t, DefaultSMTPHost, resp.SMTPHost)
	assert.Equal(t, DefaultSMTPPort, resp.SMTPPort)
	assert.Equal(t, DefaultMaxEmailsPerHour, resp.MaxEmailsPerHour)
	assert.False(t, resp.PasswordSet)
}

func TestService_Update_NeverEchoesPassword(t *testing.T) {
	companyID := uuid.New()
	var saved *Settings
	repo := &fakeRepo{
		findByCompanyFn: func(ctx context.Context, cid string) (*Settings, error) {
			return nil, gorm.ErrRecordNotFound
		},
		upsertFn: func(ctx context.Context, s *Settings) error { saved = s; return nil },
	}
	svc := NewService(repo, &fakeMailer{})

	password := "supersecret"
	resp, err := svc.Update(context.Background(), companyID.String(), UpdateSettingsRequest{
		SMTPPassword: &password,
	})
	assert.NoError(t, err)
	assert.True(t, resp.PasswordSet)
	assert.Equal(t, "supersecret", saved.SMTPPassword)
}

func TestService_SendNotificationEmail_DisabledFails(t *testing.T) {
	companyID := uuid.New()
	repo := &fakeRepo{
		findByCompanyFn: func(ctx context.Context, cid string) (*Settings, error) {
			return defaultSettings(companyID), nil
		},
	}
	mailer := &fakeMailer{}
	svc := NewService(repo, mailer)

	err := svc.SendNotificationEmail(context.Background(), companyID.String(), "absence", "leder@driftpro.no", "Ny søknad", "<p>Se over</p>")
	assert.ErrorIs(t, err, emailsettingserrors.ErrEmailDisabled)
	assert.Zero(t, mailer.calls)
}

func TestService_SendNotificationEmail_MutedKindIsSilent(t *testing.T) {
	companyID := uuid.New()
	settings := enabledSettings(companyID)
	settings.NotifyOnVacation = false
	repo := &fakeRepo{
		findByCompanyFn: func(ctx context.Context, cid string) (*Settings, error) { return settings, nil },
	}
	mailer := &fakeMailer{}
	svc := NewService(repo, mailer)

	err := svc.SendNotificationEmail(context.Background(), companyID.String(), "vacation", "leder@driftpro.no", "Ny søknad", "")
	assert.NoError(t, err)
	assert.Zero(t, mailer.calls)
}

func TestService_SendNotificationEmail_BudgetExceeded(t *testing.T) {
	companyID := uuid.New()
	settings := enabledSettings(companyID)
	settings.MaxEmailsPerHour = 10
	repo := &fakeRepo{
		findByCompanyFn:  func(ctx context.Context, cid string) (*Settings, error) { return settings, nil },
		countSentSinceFn: func(ctx context.Context, cid string, since time.Time) (int64, error) { return 10, nil },
	}
	mailer := &fakeMailer{}
	svc := NewService(repo, mailer)

	err := svc.SendNotificationEmail(context.Background(), companyID.String(), "absence", "leder@driftpro.no", "Ny søknad", "")
	assert.ErrorIs(t, err, emailsettingserrors.ErrHourlyBudgetExceeded)
	assert.Zero(t, mailer.calls)
}

func TestService_SendNotificationEmail_RetriesThenSucceeds(t *testing.T) {
	companyID := uuid.New()
	settings := enabledSettings(companyID)

	var logged *Log
	repo := &fakeRepo{
		findByCompanyFn:  func(ctx context.Context, cid string) (*Settings, error) { return settings, nil },
		countSentSinceFn: func(ctx context.Context, cid string, since time.Time) (int64, error) { return 0, nil },
		createLogFn:      func(ctx context.Context, l *Log) error { logged = l; return nil },
	}
	mailer := &fakeMailer{failFor: 2}
	svc := NewService(repo, mailer)

	err := svc.SendNotificationEmail(context.Background(), companyID.String(), "deviation", "leder@driftpro.no", "Nytt avvik", "")
	assert.NoError(t, err)
	assert.Equal(t, 3, mailer.calls)
	if assert.NotNil(t, logged) {
		assert.Equal(t, LogStatusSent, logged.Status)
	}
}

func TestService_SendTest_WorksWhileDisabled(t *testing.T) {
	companyID := uuid.New()
	settings := defaultSettings(companyID)
	settings.RetryAttempts = 1

	var logged *Log
	repo := &fakeRepo{
		findByCompanyFn: func(ctx context.Context, cid string) (*Settings, error) { return settings, nil },
		createLogFn:     func(ctx context.Context, l *Log) error { logged = l; return nil },
	}
	mailer := &fakeMailer{failFor: 1}
	svc := NewService(repo, mailer)

	resp, err := svc.SendTest(context.Background(), companyID.String(), "admin@driftpro.no")
	assert.ErrorIs(t, err, emailsettingserrors.ErrSendFailed)
	assert.Equal(t, LogStatusFailed, resp.Status)
	assert.NotEmpty(t, resp.Error)
	if assert.NotNil(t, logged) {
		assert.Equal(t, LogStatusFailed, logged.Status)
	}
}
