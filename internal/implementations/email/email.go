package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"recoverable/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type EmailSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender           string
	recoveryTemplate string
	recoveryBaseUrl  url.URL
	tokenType        user.TokenType
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	recoveryTemplate string,
	recoveryBaseUrl url.URL,
	tokenType user.TokenType,
) *EmailSender {
	return &EmailSender{
		ses:              ses.NewFromConfig(awsConfig),
		sender:           sender,
		recoveryTemplate: recoveryTemplate,
		recoveryBaseUrl:  recoveryBaseUrl,
		tokenType:        tokenType,
	}
}

func (s *EmailSender) SendRecoveryInstructions(ctx context.Context, subject string, u user.User) error {
	return s.SendRecoveryEmail(ctx, subject, u, s.tokenType)
}

// SendRecoveryEmail renders the token as the given token type, regardless of
// the type the sender was created with.
func (s *EmailSender) SendRecoveryEmail(
	ctx context.Context,
	subject string,
	u user.User,
	tokenType user.TokenType,
) error {
	templateParams, err := RecoveryTemplateData(subject, u, tokenType, s.recoveryBaseUrl)
	if err != nil {
		return err
	}

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.recoveryTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

// RecoveryTemplateData renders the SES template parameters. A passcode is
// sent as is, an encrypted token is sent as a link.
func RecoveryTemplateData(
	subject string,
	u user.User,
	tokenType user.TokenType,
	baseUrl url.URL,
) (string, error) {
	if u.Email == "" {
		return "", errors.New("user email is not defined")
	}
	if !u.RecoveryToken.IsPresent || !u.RecoveryTokenExpiryAt.IsPresent {
		return "", errors.New("user recovery token is not defined")
	}

	params := recoveryTemplateParams{
		Subject:   subject,
		ExpiresAt: u.RecoveryTokenExpiryAt.Value.UTC().Format(time.RFC1123),
	}
	token := string(u.RecoveryToken.Value)
	if tokenType == user.TokenTypePasscode {
		params.Passcode = token
	} else {
		params.RecoveryUrl = baseUrl.JoinPath(token).String()
	}

	templateParamsBytes, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return string(templateParamsBytes), nil
}

type recoveryTemplateParams struct {
	Subject     string `json:"subject"`
	RecoveryUrl string `json:"recoveryUrl,omitempty"`
	Passcode    string `json:"passcode,omitempty"`
	ExpiresAt   string `json:"expiresAt"`
}
