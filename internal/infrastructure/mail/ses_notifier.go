// Package mail envía notificaciones por e-mail con Amazon SES.
package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	appconfig "github.com/luchotourn/menusemanal-sub000/pkg/config"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

var _ ports.Notifier = (*SESNotifier)(nil)

// sender abstrae sesv2.Client para poder probar el armado de mensajes.
type sender interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESNotifier implementa ports.Notifier. Sin remitente configurado queda deshabilitado
// y solo registra lo que habría enviado.
type SESNotifier struct {
	client     sender
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *logger.Logger
}

// NewSESNotifier construye el notificador a partir de la configuración.
func NewSESNotifier(ctx context.Context, cfg appconfig.MailConfig, log *logger.Logger) (*SESNotifier, error) {
	log = log.Component("mail")
	if cfg.FromEmail == "" {
		log.Info().Msg("notificaciones por e-mail deshabilitadas: SES_FROM_EMAIL no configurado")
		return &SESNotifier{log: log}, nil
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	log.Info().Str("from", cfg.FromEmail).Str("region", cfg.Region).Msg("notificaciones por e-mail habilitadas")
	return newNotifier(sesv2.NewFromConfig(awsCfg), cfg, log), nil
}

func newNotifier(client sender, cfg appconfig.MailConfig, log *logger.Logger) *SESNotifier {
	return &SESNotifier{
		client:     client,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		appBaseURL: strings.TrimRight(cfg.AppBaseURL, "/"),
		enabled:    true,
		log:        log,
	}
}

// IsEnabled indica si los e-mails se envían realmente.
func (n *SESNotifier) IsEnabled() bool {
	return n.enabled
}

// NotifyMealComment envía un e-mail por destinatario; el primer error corta el envío.
func (n *SESNotifier) NotifyMealComment(ctx context.Context, msg ports.MealCommentNotification) error {
	if !n.enabled {
		n.log.Debug().Int("destinatarios", len(msg.Recipients)).Msg("e-mail omitido (servicio deshabilitado)")
		return nil
	}
	subject := fmt.Sprintf("%s comentó %s del %s", msg.AuthorName, msg.RecipeName, msg.Fecha)
	htmlBody, textBody := n.mealCommentBodies(msg)
	for _, to := range msg.Recipients {
		if err := n.send(ctx, to, subject, htmlBody, textBody); err != nil {
			return err
		}
	}
	return nil
}

func (n *SESNotifier) send(ctx context.Context, to ports.Recipient, subject, htmlBody, textBody string) error {
	from := n.fromEmail
	if n.fromName != "" {
		from = fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)
	}
	_, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to.Email}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to.Email, err)
	}
	n.log.Debug().Str("to", to.Email).Msg("e-mail enviado")
	return nil
}

func (n *SESNotifier) mealCommentBodies(msg ports.MealCommentNotification) (htmlBody, textBody string) {
	comment := msg.Comment
	if msg.Emoji != "" {
		comment = msg.Emoji + " " + comment
	}
	link := n.appBaseURL + "/"
	textBody = fmt.Sprintf("%s comentó %s (%s, %s):\n\n%s\n\nVer el menú: %s\n",
		msg.AuthorName, msg.RecipeName, msg.TipoComida, msg.Fecha, comment, link)
	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<p><strong>%s</strong> comentó <strong>%s</strong> (%s, %s):</p>
	<blockquote style="border-left: 3px solid #2e7d32; padding-left: 10px;">%s</blockquote>
	<p><a href="%s">Ver el menú</a></p>
</body>
</html>`,
		html.EscapeString(msg.AuthorName), html.EscapeString(msg.RecipeName),
		html.EscapeString(msg.TipoComida), html.EscapeString(msg.Fecha),
		html.EscapeString(comment), html.EscapeString(link))
	return htmlBody, textBody
}
