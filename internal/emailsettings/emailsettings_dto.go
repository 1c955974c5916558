package emailsettings

type UpdateSettingsRequest struct {
	Enabled   *bool   `json:"enabled"`
	FromEmail *string `json:"fromEmail" binding:"omitempty,email"`
	FromName  *string `json:"fromName"`

	SMTPHost *string `json:"smtpHost"`
	SMTPPort *int    `json:"smtpPort" binding:"omitempty,min=1,max=65535"`
	SMTPUser *string `json:"smtpUser"`
	// SMTPPassword is write-only; omit it to keep the stored one.
	SMTPPassword *string `json:"smtpPassword"`

	RetryAttempts    *int `json:"retryAttempts" binding:"omitempty,min=0,max=10"`
	MaxEmailsPerHour *int `json:"maxEmailsPerHour" binding:"omitempty,min=1"`

	NotifyOnAbsence   *bool `json:"notifyOnAbsence"`
	NotifyOnVacation  *bool `json:"notifyOnVacation"`
	NotifyOnDeviation *bool `json:"notifyOnDeviation"`
}

type SendTestEmailRequest struct {
	To string `json:"to" binding:"required,email"`
}

type SettingsResponse struct {
	Enabled   bool   `json:"enabled"`
	FromEmail string `json:"fromEmail"`
	FromName  string `json:"fromName,omitempty"`

	SMTPHost string `json:"smtpHost"`
	SMTPPort int    `json:"smtpPort"`
	SMTPUser string `json:"smtpUser,omitempty"`
	// PasswordSet says whether a password is stored; the value never
	// leaves the server.
	PasswordSet bool `json:"passwordSet"`

	RetryAttempts    int `json:"retryAttempts"`
	MaxEmailsPerHour int `json:"maxEmailsPerHour"`

	NotifyOnAbsence   bool `json:"notifyOnAbsence"`
	NotifyOnVacation  bool `json:"notifyOnVacation"`
	NotifyOnDeviation bool `json:"notifyOnDeviation"`

	UpdatedAt string `json:"updatedAt,omitempty"`
}

type LogResponse struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"createdAt"`
}
