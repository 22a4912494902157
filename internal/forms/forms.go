package forms

import (
	"context"
	"fmt"

	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/AnushM55/autoforms-backend/internal/model"
)

// Client wraps the Google Forms API for quiz form creation.
type Client struct {
	svc *forms.Service
}

// New creates a Forms client authenticated with a service account
// credentials file.
func New(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := forms.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(forms.FormsBodyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create forms service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// CreateForm creates a Google Form titled after the quiz, adds one required
// radio-choice item per question, and marks the form as a quiz. It returns
// the form ID and the URL respondents use to fill it in.
func (c *Client) CreateForm(ctx context.Context, title string, questions []model.Question) (string, string, error) {
	created, err := c.svc.Forms.Create(&forms.Form{
		Info: &forms.Info{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("create form: %w", err)
	}
	formID := created.FormId
	formURL := created.ResponderUri
	if formURL == "" {
		formURL = fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", formID)
	}

	var requests []*forms.Request
	for i, q := range questions {
		options := make([]*forms.Option, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, &forms.Option{Value: opt})
		}
		requests = append(requests, &forms.Request{
			CreateItem: &forms.CreateItemRequest{
				Item: &forms.Item{
					Title: q.Text,
					QuestionItem: &forms.QuestionItem{
						Question: &forms.Question{
							Required: true,
							ChoiceQuestion: &forms.ChoiceQuestion{
								Type:    "RADIO",
								Options: options,
								Shuffle: false,
							},
						},
					},
				},
				Location: &forms.Location{
					Index:           int64(i),
					ForceSendFields: []string{"Index"},
				},
			},
		})
	}

	if len(requests) > 0 {
		_, err = c.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return "", "", fmt.Errorf("add questions to form %s: %w", formID, err)
		}
	}

	// The isQuiz flag must be set in a separate settings update; it cannot be
	// part of the create call.
	_, err = c.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: []*forms.Request{{
			UpdateSettings: &forms.UpdateSettingsRequest{
				Settings: &forms.FormSettings{
					QuizSettings: &forms.QuizSettings{IsQuiz: true},
				},
				UpdateMask: "quizSettings.isQuiz",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("enable quiz settings on form %s: %w", formID, err)
	}

	return formID, formURL, nil
}
