package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
)

// sesAPI is the part of *sesv2.Client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newSESClient         = func(cfg aws.Config, optFns ...func(*sesv2.Options)) sesAPI {
		return sesv2.NewFromConfig(cfg, optFns...)
	}
)

type SESMailer struct {
	from   string
	client sesAPI
}

func NewSESMailer(ctx context.Context, cfg *config.Config) (*SESMailer, error) {
	optFns := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SESRegion)}
	if cfg.SESAccessKeyID != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SESAccessKeyID, cfg.SESSecretAccessKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newSESClient(awsCfg, func(o *sesv2.Options) {
		if cfg.SESEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.SESEndpoint)
		}
	})
	return &SESMailer{from: cfg.MailFrom, client: client}, nil
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body:    &types.Body{Text: &types.Content{Data: aws.String(body)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
