package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

const charset = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

var openSESAPI = func(cfg aws.Config) sesAPI {
	return sesv2.NewFromConfig(cfg)
}

// SESOptions configure NewSESClient. Static credentials are optional; when
// empty the default AWS credential chain is used.
type SESOptions struct {
	Region          string
	From            string
	AccessKeyID     string
	SecretAccessKey string
}

// SESClient sends email through Amazon SES v2.
type SESClient struct {
	api    sesAPI
	from   string
	logger logging.Logger
}

// NewSESClient builds the client and checks that the account is reachable
// with the resolved credentials.
func NewSESClient(ctx context.Context, opts SESOptions, l logging.Logger) (*SESClient, error) {
	if opts.From == "" {
		return nil, errors.New("ses sender address must not be empty")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	c := newSESClient(openSESAPI(cfg), opts.From, l)
	if err := c.checkAccess(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newSESClient(api sesAPI, from string, l logging.Logger) *SESClient {
	return &SESClient{api: api, from: from, logger: l.With("module", "ses")}
}

func (c *SESClient) checkAccess(ctx context.Context) error {
	if _, err := c.api.GetAccount(ctx, &sesv2.GetAccountInput{}); err != nil {
		c.logger.Error(ctx, "SES access check failed", "error", err)
		return fmt.Errorf("ses access check: %w", err)
	}
	c.logger.Info(ctx, "SES access validated")
	return nil
}

func (c *SESClient) SendEmail(ctx context.Context, recipient models.Email, subject, content string) error {
	out, err := c.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.from),
		Destination: &types.Destination{
			ToAddresses: []string{recipient.Expose()},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(content), Charset: aws.String(charset)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}

	c.logger.Info(ctx, "email sent", "recipient", recipient, "message_id", aws.ToString(out.MessageId))
	return nil
}
