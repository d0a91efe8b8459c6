package service

import (
	"context"
	"fmt"

	"hanguldrill/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	log "github.com/sirupsen/logrus"
)

// EmailService sends completed-mix score reports via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	toEmail   string
	enabled   bool
}

// NewEmailService creates the score-report mailer. An empty fromEmail or
// toEmail yields a disabled service that silently skips sends.
func NewEmailService(awsRegion, fromEmail, fromName, toEmail string) (*EmailService, error) {
	if fromEmail == "" || toEmail == "" {
		log.Info("Score report emails disabled: SES_FROM_EMAIL or SCORE_REPORT_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.WithFields(log.Fields{"from": fromEmail, "region": awsRegion}).Info("Score report emails enabled")
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		toEmail:   toEmail,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether reports will actually be sent
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendScoreReport mails the result of one completed practice mix
func (s *EmailService) SendScoreReport(ctx context.Context, score *models.ScoreSnapshot) error {
	if !s.enabled {
		return nil
	}

	subject := fmt.Sprintf("Practice mix completed: %d/%d first try", score.FirstTryCorrect, score.TotalItems)
	body := fmt.Sprintf(
		"A practice mix finished on %s.\n\nItems: %d\nFirst-try correct: %d\nAccuracy: %.0f%%\n",
		score.CreatedAt.Format("2 Jan 2006 15:04"),
		score.TotalItems,
		score.FirstTryCorrect,
		score.Accuracy()*100,
	)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send score report: %w", err)
	}
	log.WithField("to", s.toEmail).Info("Score report sent")
	return nil
}
