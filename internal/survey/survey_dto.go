package survey

type QuestionInput struct {
	Text     string   `json:"text" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
}

type CreateSurveyRequest struct {
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	Questions      []QuestionInput `json:"questions" binding:"required,min=1"`
	TargetAudience string          `json:"targetAudience"`
}

type UpdateSurveyRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Questions      *[]QuestionInput `json:"questions"`
	TargetAudience *string          `json:"targetAudience"`
}

type SubmitSurveyRequest struct {
	Answers map[string]any `json:"answers" binding:"required"`
}

type ListSurveysFilter struct {
	Status string `form:"status"`
}

type SurveyResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Questions      []Question `json:"questions"`
	Status         string     `json:"status"`
	TargetAudience string     `json:"targetAudience,omitempty"`
	ResponseCount  int        `json:"responseCount"`
	CreatedBy      string     `json:"createdBy"`
	ActivatedAt    *string    `json:"activatedAt,omitempty"`
	ClosedAt       *string    `json:"closedAt,omitempty"`
	CreatedAt      string     `json:"createdAt"`
}

type SubmissionResponse struct {
	ID           string         `json:"id"`
	SurveyID     string         `json:"surveyId"`
	RespondentID string         `json:"respondentId"`
	Answers      map[string]any `json:"answers"`
	CreatedAt    string         `json:"createdAt"`
}
