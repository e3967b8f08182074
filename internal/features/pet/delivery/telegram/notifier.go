package telegram

import (
	"context"

	tgclient "bukashka-bot/internal/platform/telegram"

	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/service"
)

// Notifier доставляет асинхронные события сервисов в чат владельца.
type Notifier struct {
	client *tgclient.Client
}

func NewNotifier(client *tgclient.Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) AdventureCompleted(ctx context.Context, chatID int64, report *service.AdventureReport) error {
	return n.client.SendMessage(ctx, chatID, adventureReportText(report), nil)
}

func (n *Notifier) HungerWarning(ctx context.Context, chatID int64, pet *models.Pet, threshold int) error {
	return n.client.SendMessage(ctx, chatID, hungerWarningText(pet, threshold), nil)
}

func (n *Notifier) PetDied(ctx context.Context, chatID int64, obituary *models.Obituary) error {
	return n.client.SendMessage(ctx, chatID, obituaryText(obituary), nil)
}

// Roller бросает анимированный кубик Telegram; значение с экрана и есть
// результат игры, подменить его на стороне бота нельзя.
type Roller struct {
	client *tgclient.Client
}

func NewRoller(client *tgclient.Client) *Roller {
	return &Roller{client: client}
}

func (r *Roller) Roll(ctx context.Context, chatID int64, kind service.GameKind) (int, error) {
	emoji := tgclient.DiceEmoji
	switch kind {
	case service.GameBowling:
		emoji = tgclient.BowlingEmoji
	case service.GameSlot:
		emoji = tgclient.SlotEmoji
	}
	return r.client.SendDice(ctx, chatID, emoji)
}
