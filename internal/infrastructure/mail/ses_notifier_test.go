package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	appconfig "github.com/luchotourn/menusemanal-sub000/pkg/config"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

type fakeSender struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSender) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{}, f.err
}

func sampleNotification() ports.MealCommentNotification {
	return ports.MealCommentNotification{
		Recipients: []ports.Recipient{{Email: "ana@test.com", Name: "Ana"}, {Email: "beto@test.com", Name: "Beto"}},
		AuthorName: "Lucía",
		RecipeName: "Pasta <casera>",
		Fecha:      "2025-06-02",
		TipoComida: "almuerzo",
		Comment:    "¡Me encantó!",
		Emoji:      "😋",
	}
}

func TestNotifyMealComment_UnEmailPorDestinatario(t *testing.T) {
	fake := &fakeSender{}
	n := newNotifier(fake, appconfig.MailConfig{FromEmail: "menu@test.com", FromName: "Menú", AppBaseURL: "https://menu.test/"}, logger.Nop())

	require.NoError(t, n.NotifyMealComment(context.Background(), sampleNotification()))
	require.Len(t, fake.inputs, 2)
	assert.Equal(t, "Menú <menu@test.com>", *fake.inputs[0].FromEmailAddress)
	assert.Equal(t, []string{"beto@test.com"}, fake.inputs[1].Destination.ToAddresses)

	htmlBody := *fake.inputs[0].Content.Simple.Body.Html.Data
	assert.Contains(t, htmlBody, "Pasta &lt;casera&gt;")
	assert.Contains(t, htmlBody, "https://menu.test/")
	assert.Contains(t, *fake.inputs[0].Content.Simple.Body.Text.Data, "😋 ¡Me encantó!")
}

func TestNotifyMealComment_PropagaError(t *testing.T) {
	fake := &fakeSender{err: errors.New("throttled")}
	n := newNotifier(fake, appconfig.MailConfig{FromEmail: "menu@test.com"}, logger.Nop())

	err := n.NotifyMealComment(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.Len(t, fake.inputs, 1)
}

func TestNotifyMealComment_Deshabilitado(t *testing.T) {
	n, err := NewSESNotifier(context.Background(), appconfig.MailConfig{}, logger.Nop())
	require.NoError(t, err)
	assert.False(t, n.IsEnabled())
	assert.NoError(t, n.NotifyMealComment(context.Background(), sampleNotification()))
}
