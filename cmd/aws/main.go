package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/urfave/cli/v3"
)

const (
	recoveryTemplateSubject = "{{subject}}"
	recoveryTemplateHtml    = `<p>Somebody requested a password recovery for your account.</p>
{{#if recoveryUrl}}<p><a href="{{recoveryUrl}}">Set a new password</a></p>{{/if}}
{{#if passcode}}<p>Your recovery code: <b>{{passcode}}</b></p>{{/if}}
<p>The link expires at {{expiresAt}}. Ignore this email if it was not you.</p>`
	recoveryTemplateText = `Somebody requested a password recovery for your account.
{{#if recoveryUrl}}Set a new password: {{recoveryUrl}}{{/if}}
{{#if passcode}}Your recovery code: {{passcode}}{{/if}}
The link expires at {{expiresAt}}. Ignore this email if it was not you.`
)

func main() {
	templateFlag := &cli.StringFlag{
		Name:    "template",
		Value:   "recovery",
		Usage:   "SES template name",
		Sources: cli.EnvVars("EMAIL_RECOVERY_TEMPLATE"),
	}

	cmd := &cli.Command{
		Name:  "aws",
		Usage: "Manage the SES template used for recovery instructions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "region", Value: "eu-central-1", Sources: cli.EnvVars("AWS_REGION")},
			&cli.StringFlag{Name: "access-key", Sources: cli.EnvVars("AWS_ACCESS_KEY")},
			&cli.StringFlag{Name: "secret-key", Sources: cli.EnvVars("AWS_SECRET_KEY")},
		},
		Commands: []*cli.Command{
			{
				Name:   "create-template",
				Usage:  "Create the recovery email template",
				Flags:  []cli.Flag{templateFlag},
				Action: createTemplate,
			},
			{
				Name:   "delete-template",
				Usage:  "Delete the recovery email template",
				Flags:  []cli.Flag{templateFlag},
				Action: deleteTemplate,
			},
			{
				Name:  "send-template",
				Usage: "Send the recovery email template with the given JSON data",
				Flags: []cli.Flag{
					templateFlag,
					&cli.StringFlag{Name: "sender", Required: true, Sources: cli.EnvVars("EMAIL_SENDER")},
					&cli.StringFlag{Name: "to", Required: true},
					&cli.StringFlag{Name: "data", Value: "{}"},
				},
				Action: sendTemplate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newSesClient(ctx context.Context, cmd *cli.Command) (*ses.Client, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		ctx,
		awsConfig.WithRegion(cmd.String("region")),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cmd.String("access-key"),
				cmd.String("secret-key"),
				"",
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return ses.NewFromConfig(awsCfg), nil
}

func createTemplate(ctx context.Context, cmd *cli.Command) error {
	svc, err := newSesClient(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := svc.CreateTemplate(ctx, &ses.CreateTemplateInput{
		Template: &types.Template{
			TemplateName: aws.String(cmd.String("template")),
			SubjectPart:  aws.String(recoveryTemplateSubject),
			HtmlPart:     aws.String(recoveryTemplateHtml),
			TextPart:     aws.String(recoveryTemplateText),
		},
	})
	if err != nil {
		return err
	}

	fmt.Println("Success:")
	fmt.Println(result)
	return nil
}

func deleteTemplate(ctx context.Context, cmd *cli.Command) error {
	svc, err := newSesClient(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := svc.DeleteTemplate(ctx, &ses.DeleteTemplateInput{
		TemplateName: aws.String(cmd.String("template")),
	})
	if err != nil {
		return err
	}

	fmt.Println("Success:")
	fmt.Println(result)
	return nil
}

func sendTemplate(ctx context.Context, cmd *cli.Command) error {
	svc, err := newSesClient(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := svc.SendTemplatedEmail(ctx, &ses.SendTemplatedEmailInput{
		// This address must be verified with Amazon SES.
		Source: aws.String(cmd.String("sender")),
		Destination: &types.Destination{
			CcAddresses: []string{},
			ToAddresses: []string{cmd.String("to")},
		},
		Template:     aws.String(cmd.String("template")),
		TemplateData: aws.String(cmd.String("data")),
	})
	if err != nil {
		return err
	}

	fmt.Println("Success:")
	fmt.Println(result)
	return nil
}
