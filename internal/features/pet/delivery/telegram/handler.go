package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "bukashka-bot/internal/common/errors"
	"bukashka-bot/internal/common/logger"
	tgclient "bukashka-bot/internal/platform/telegram"

	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/service"
	"bukashka-bot/internal/utils/timefmt"
)

// Команды бота. Сравнение идёт по нормализованному тексту, так что
// «Покормить!» и «покормить» — одно и то же.
const (
	cmdStart     = "/start"
	cmdAdopt     = "взять букашку"
	cmdFeed      = "покормить"
	cmdStatus    = "моя букашка"
	cmdAdventure = "приключение"
	cmdGames     = "игры"
	cmdCasino    = "казино"
	cmdShop      = "магазин"
	cmdFarewell  = "попрощаться"
)

// Данные inline-кнопок
const (
	cbAdventureConfirm = "adv_confirm"
	cbAdventureCancel  = "adv_cancel"
	cbFarewellConfirm  = "bye_confirm"
	cbFarewellCancel   = "bye_cancel"
	cbGamePrefix       = "game:"
	cbBuyPrefix        = "buy:"
)

// Handler разбирает обновления Telegram и переводит их в вызовы сервисов.
type Handler struct {
	client     *tgclient.Client
	pets       *service.PetService
	adventures *service.AdventureService
	economy    *service.EconomyService
	log        zerolog.Logger

	// Пользователи, от которых ждём имя новой букашки
	pendingNames sync.Map
}

func NewHandler(
	client *tgclient.Client,
	pets *service.PetService,
	adventures *service.AdventureService,
	economy *service.EconomyService,
) *Handler {
	return &Handler{
		client:     client,
		pets:       pets,
		adventures: adventures,
		economy:    economy,
		log:        logger.Component("bot"),
	}
}

// Webhook — gin-обработчик входящих обновлений от Telegram.
// Отвечаем 200 всегда: иначе Telegram будет ретраить обновление.
func (h *Handler) Webhook(c *gin.Context) {
	var update tgclient.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warn().Err(err).Msg("malformed update payload")
		c.Status(http.StatusOK)
		return
	}

	h.HandleUpdate(c.Request.Context(), &update)
	c.Status(http.StatusOK)
}

// HandleUpdate обрабатывает одно обновление.
func (h *Handler) HandleUpdate(ctx context.Context, update *tgclient.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgclient.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	// Фото без текста — новый портрет букашки
	if len(msg.Photo) > 0 {
		h.handlePhoto(ctx, userID, chatID, msg.Photo)
		return
	}

	// Если ждём имя — любой текст и есть имя
	if _, ok := h.pendingNames.Load(userID); ok {
		h.pendingNames.Delete(userID)
		h.handleAdoptName(ctx, userID, chatID, strings.TrimSpace(msg.Text))
		return
	}

	switch normalizeCommand(msg.Text) {
	case cmdStart:
		h.reply(ctx, chatID, "Привет\\! Я бот\\-букашка 🐛\n\nНапиши *взять букашку*, чтобы завести питомца\\.", nil)
	case cmdAdopt:
		h.handleAdopt(ctx, userID, chatID)
	case cmdFeed:
		h.handleFeed(ctx, userID, chatID)
	case cmdStatus:
		h.handleStatus(ctx, userID, chatID)
	case cmdAdventure:
		h.handleAdventure(ctx, userID, chatID, false)
	case cmdGames:
		h.handleGamesMenu(ctx, chatID)
	case cmdCasino:
		h.handleCasino(ctx, userID, chatID)
	case cmdShop:
		h.handleShop(ctx, userID, chatID)
	case cmdFarewell:
		h.handleFarewell(ctx, chatID)
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgclient.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	if err := h.client.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
		h.log.Debug().Err(err).Msg("failed to answer callback query")
	}

	data := cb.Data
	switch {
	case data == cbAdventureConfirm:
		h.handleAdventure(ctx, userID, chatID, true)
	case data == cbAdventureCancel:
		h.reply(ctx, chatID, "Мудрое решение\\. Сначала покорми букашку\\.", nil)
	case data == cbFarewellConfirm:
		h.handleFarewellConfirm(ctx, userID, chatID)
	case data == cbFarewellCancel:
		h.reply(ctx, chatID, "Букашка остаётся с тобой\\! 🐛", nil)
	case strings.HasPrefix(data, cbGamePrefix):
		h.handleGame(ctx, userID, chatID, strings.TrimPrefix(data, cbGamePrefix))
	case strings.HasPrefix(data, cbBuyPrefix):
		h.handleBuy(ctx, userID, chatID, strings.TrimPrefix(data, cbBuyPrefix))
	}
}

func (h *Handler) handleAdopt(ctx context.Context, userID, chatID int64) {
	if _, err := h.pets.Get(ctx, userID); err == nil {
		h.reply(ctx, chatID, "У тебя уже есть букашка\\! Одной вполне достаточно\\.", nil)
		return
	}
	h.pendingNames.Store(userID, struct{}{})
	h.reply(ctx, chatID, "Как назовём букашку? Напиши имя\\.", nil)
}

func (h *Handler) handleAdoptName(ctx context.Context, userID, chatID int64, name string) {
	if name == "" || len([]rune(name)) > 50 {
		h.pendingNames.Store(userID, struct{}{})
		h.reply(ctx, chatID, "Имя должно быть от 1 до 50 символов\\. Попробуй ещё раз\\.", nil)
		return
	}

	pet, err := h.pets.Create(ctx, userID, chatID, name)
	if err != nil {
		if errors.Is(err, service.ErrPetExists) {
			h.reply(ctx, chatID, "У тебя уже есть букашка\\!", nil)
			return
		}
		h.replyError(ctx, chatID, err)
		return
	}

	text := fmt.Sprintf(
		"🎉 Букашка *%s* поселилась у тебя\\!\n\nКорми её, играй с ней и отправляй в приключения\\. И не забывай: голодная букашка долго не живёт\\.",
		escapeMD(pet.Name),
	)
	h.reply(ctx, chatID, text, nil)
}

func (h *Handler) handleFeed(ctx context.Context, userID, chatID int64) {
	report, err := h.pets.Feed(ctx, userID, chatID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.reply(ctx, chatID, feedResultText(report), nil)
}

func (h *Handler) handleStatus(ctx context.Context, userID, chatID int64) {
	pet, err := h.pets.Get(ctx, userID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}

	now := time.Now()
	if pet.Image != "" {
		// Подпись без разметки, sendPhoto у нас её не включает
		if err := h.client.SendPhoto(ctx, chatID, pet.Image, ""); err != nil {
			h.log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send pet photo")
		}
	}
	h.reply(ctx, chatID, petCard(pet, now), nil)
}

func (h *Handler) handlePhoto(ctx context.Context, userID, chatID int64, photos []tgclient.PhotoSize) {
	// Telegram присылает варианты по возрастанию размера, берём крупнейший
	fileID := photos[len(photos)-1].FileID

	pet, err := h.pets.SetImage(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, service.ErrNoPet) {
			return
		}
		h.replyError(ctx, chatID, err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("📸 Новый портрет букашки *%s* сохранён\\!", escapeMD(pet.Name)), nil)
}

func (h *Handler) handleAdventure(ctx context.Context, userID, chatID int64, acceptRisk bool) {
	report, err := h.adventures.Start(ctx, userID, chatID, acceptRisk)
	if err != nil {
		if errors.Is(err, service.ErrFeedTooLow) {
			kb := &tgclient.Keyboard{InlineKeyboard: [][]tgclient.Button{{
				{Text: "Рискнуть 🎲", CallbackData: cbAdventureConfirm},
				{Text: "Остаться дома 🏠", CallbackData: cbAdventureCancel},
			}}}
			h.reply(ctx, chatID, "⚠️ Букашка слишком голодна для приключений\\. Она может не вернуться\\. Рискнём?", kb)
			return
		}
		h.replyError(ctx, chatID, err)
		return
	}

	text := fmt.Sprintf(
		"🗺 Букашка *%s* отправилась в приключение\\!\nВернётся через %s\\.",
		escapeMD(report.Pet.Name),
		escapeMD(timefmt.Duration(time.Duration(report.ReturnsIn)*time.Second)),
	)
	h.reply(ctx, chatID, text, nil)
}

func (h *Handler) handleGamesMenu(ctx context.Context, chatID int64) {
	kb := &tgclient.Keyboard{InlineKeyboard: [][]tgclient.Button{{
		{Text: "Кости 🎲", CallbackData: cbGamePrefix + string(service.GameDice)},
		{Text: "Боулинг 🎳", CallbackData: cbGamePrefix + string(service.GameBowling)},
	}}}
	h.reply(ctx, chatID, "Во что сыграем?", kb)
}

func (h *Handler) handleGame(ctx context.Context, userID, chatID int64, kind string) {
	report, err := h.economy.PlayGame(ctx, userID, chatID, service.GameKind(kind))
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.reply(ctx, chatID, gameResultText(report), nil)
}

func (h *Handler) handleCasino(ctx context.Context, userID, chatID int64) {
	report, err := h.economy.PlayCasino(ctx, userID, chatID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.reply(ctx, chatID, casinoResultText(report), nil)
}

func (h *Handler) handleShop(ctx context.Context, userID, chatID int64) {
	pet, err := h.pets.Get(ctx, userID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}

	kb := &tgclient.Keyboard{InlineKeyboard: [][]tgclient.Button{
		{{Text: fmt.Sprintf("Буст приключений — %d 🪙", service.PriceAdventureBoost), CallbackData: cbBuyPrefix + string(models.BoostAdventure)}},
		{{Text: fmt.Sprintf("Буст счастья — %d 🪙", service.PriceHappyBoost), CallbackData: cbBuyPrefix + string(models.BoostHappy)}},
		{{Text: fmt.Sprintf("Буст сытости — %d 🪙", service.PriceFeedBoost), CallbackData: cbBuyPrefix + string(models.BoostFeed)}},
	}}
	text := fmt.Sprintf("🛒 *Магазин*\n\nУ тебя %d 🪙\nАктивный буст: %s", pet.Coins, escapeMD(boostLabel(pet.Boost)))
	h.reply(ctx, chatID, text, kb)
}

func (h *Handler) handleBuy(ctx context.Context, userID, chatID int64, boost string) {
	report, err := h.economy.BuyBoost(ctx, userID, chatID, models.Boost(boost))
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}

	text := fmt.Sprintf("✨ Куплен %s за %d 🪙\\!", escapeMD(boostLabel(report.Bought)), report.Price)
	if report.Replaced != models.BoostNone {
		text += fmt.Sprintf("\nПрежний %s пропал без возврата\\.", escapeMD(boostLabel(report.Replaced)))
	}
	h.reply(ctx, chatID, text, nil)
}

func (h *Handler) handleFarewell(ctx context.Context, chatID int64) {
	kb := &tgclient.Keyboard{InlineKeyboard: [][]tgclient.Button{{
		{Text: "Да, прощай 💔", CallbackData: cbFarewellConfirm},
		{Text: "Нет!", CallbackData: cbFarewellCancel},
	}}}
	h.reply(ctx, chatID, "Точно хочешь попрощаться с букашкой? Это навсегда\\.", kb)
}

func (h *Handler) handleFarewellConfirm(ctx context.Context, userID, chatID int64) {
	if _, err := h.pets.Dispose(ctx, userID); err != nil {
		h.replyError(ctx, chatID, err)
	}
	// Некролог приходит через Notifier, отдельного ответа не нужно
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string, kb *tgclient.Keyboard) {
	if err := h.client.SendMessage(ctx, chatID, text, kb); err != nil {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send reply")
	}
}

// replyError переводит ошибки сервисов в понятные пользователю сообщения.
func (h *Handler) replyError(ctx context.Context, chatID int64, err error) {
	var text string
	switch {
	case errors.Is(err, service.ErrNoPet):
		text = "У тебя ещё нет букашки\\. Напиши *взять букашку*\\!"
	case errors.Is(err, service.ErrAdventuring):
		text = "Букашка сейчас в приключении, подожди её возвращения\\."
	case errors.Is(err, service.ErrNotEnoughCoins):
		text = "Не хватает монет 🪙"
	case errors.Is(err, service.ErrBoostRedundant):
		text = "Такой буст уже активен\\."
	default:
		if cd, ok := service.AsCooldown(err); ok {
			text = fmt.Sprintf("Не так быстро\\! Подожди ещё %s\\.", escapeMD(timefmt.Duration(cd.Remaining)))
			break
		}
		// Если упал сам Telegram API, повторная отправка вряд ли пройдёт
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeTelegramAPI {
			h.log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram API failure")
			return
		}
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("command failed")
		text = "Что\\-то пошло не так, попробуй позже\\."
	}
	h.reply(ctx, chatID, text, nil)
}

// normalizeCommand приводит текст команды к каноническому виду: нижний
// регистр, без знаков препинания и эмодзи, с одиночными пробелами.
// Ведущий слэш сохраняется, чтобы различать /start.
func normalizeCommand(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for i, r := range s {
		switch {
		case r == '/' && i == 0:
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) && !lastSpace && b.Len() > 0:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Commands — список команд для меню бота.
func Commands() []tgclient.BotCommand {
	return []tgclient.BotCommand{
		{Command: "start", Description: "Познакомиться с ботом"},
	}
}
