package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/adapters/observability"
	"villa_mare/internal/domain"
)

// Notifier tells the owner's chat about new booking requests.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New connects to the Bot API. An empty endpoint means api.telegram.org.
func New(token string, chatID int64, endpoint string) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram: token and chat id are required")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram notifier ready")
	return &Notifier{bot: bot, chatID: chatID}, nil
}

func (n *Notifier) BookingRequested(ctx context.Context, b domain.Booking) error {
	msg := tgbotapi.NewMessage(n.chatID, bookingText(b))
	msg.DisableWebPagePreview = true

	done := make(chan error, 1)
	start := time.Now()
	go func() {
		_, err := n.bot.Send(msg)
		done <- err
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		status := 200
		if err != nil {
			status = 500
			observability.ObserveExternalError("telegram", err)
		}
		observability.ObserveExternal("telegram", "sendMessage", status, time.Since(start))
		return err
	}
}

func bookingText(b domain.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Nuova richiesta di prenotazione\n\n")
	fmt.Fprintf(&sb, "Ospite: %s\n", b.GuestName)
	fmt.Fprintf(&sb, "Email: %s\n", b.GuestEmail)
	if b.GuestPhone != nil {
		fmt.Fprintf(&sb, "Telefono: %s\n", *b.GuestPhone)
	}
	fmt.Fprintf(&sb, "Date: %s - %s (%d notti)\n",
		b.CheckIn.Format("02/01/2006"), b.CheckOut.Format("02/01/2006"), b.Nights())
	fmt.Fprintf(&sb, "Ospiti: %d\n", b.GuestsCount)
	fmt.Fprintf(&sb, "Pagamento: %s\n", b.PaymentMethod)
	if b.Message != nil {
		fmt.Fprintf(&sb, "\n%s\n", *b.Message)
	}
	fmt.Fprintf(&sb, "\nID: %s", b.ID)
	return sb.String()
}
