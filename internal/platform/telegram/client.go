package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "bukashka-bot/internal/common/errors"
	"bukashka-bot/internal/common/logger"
)

const apiBase = "https://api.telegram.org"

// Эмодзи для sendDice: от них зависит и анимация, и диапазон значений
const (
	DiceEmoji    = "🎲" // 1..6
	BowlingEmoji = "🎳" // 1..6
	SlotEmoji    = "🎰" // 1..64
)

// Client — клиент Bot API. Работает напрямую с HTTP-интерфейсом Telegram.
type Client struct {
	httpClient *http.Client
	token      string
	log        zerolog.Logger
}

// RPSError представляет ошибку превышения лимита запросов
type RPSError struct {
	Msg string
}

func (e *RPSError) Error() string {
	return e.Msg
}

// Response представляет конверт ответа Telegram API
type Response struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Update — входящее обновление из вебхука. Объявлены только поля,
// которые бот реально читает.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type Message struct {
	MessageID int64        `json:"message_id"`
	From      *User        `json:"from,omitempty"`
	Chat      Chat         `json:"chat"`
	Text      string       `json:"text,omitempty"`
	Photo     []PhotoSize  `json:"photo,omitempty"`
	Dice      *DiceMessage `json:"dice,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type PhotoSize struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type DiceMessage struct {
	Emoji string `json:"emoji"`
	Value int    `json:"value"`
}

// Keyboard — inline-клавиатура под сообщением
type Keyboard struct {
	InlineKeyboard [][]Button `json:"inline_keyboard"`
}

type Button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	WebApp       *struct {
		URL string `json:"url"`
	} `json:"web_app,omitempty"`
}

type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token: token,
		log:   logger.Component("telegram"),
	}
}

// SendMessage отправляет текст в чат с разметкой MarkdownV2. Если Telegram
// отклонил разметку (в именах питомцев попадается что угодно), сообщение
// уходит повторно простым текстом.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *Keyboard) error {
	params := url.Values{
		"chat_id":    {fmt.Sprintf("%d", chatID)},
		"text":       {text},
		"parse_mode": {"MarkdownV2"},
	}
	if keyboard != nil {
		markup, err := json.Marshal(keyboard)
		if err != nil {
			return fmt.Errorf("failed to marshal keyboard: %w", err)
		}
		params.Set("reply_markup", string(markup))
	}

	_, err := c.call(ctx, "sendMessage", params)
	if err == nil {
		return nil
	}
	if _, ok := err.(*RPSError); ok {
		return err
	}

	// Падение разметки — не повод терять сообщение
	c.log.Warn().Err(err).Int64("chat_id", chatID).Msg("markdown send failed, retrying as plain text")
	params.Del("parse_mode")
	if _, err := c.call(ctx, "sendMessage", params); err != nil {
		return apperrors.NewTelegramAPIError("sendMessage", err)
	}
	return nil
}

// SendPhoto отправляет фото по file_id с подписью.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	params := url.Values{
		"chat_id": {fmt.Sprintf("%d", chatID)},
		"photo":   {fileID},
	}
	if caption != "" {
		params.Set("caption", caption)
	}

	if _, err := c.call(ctx, "sendPhoto", params); err != nil {
		return apperrors.NewTelegramAPIError("sendPhoto", err)
	}
	return nil
}

// SendDice бросает анимированный кубик и возвращает выпавшее значение.
// Значение приходит в ответе метода, анимацию чат видит сам.
func (c *Client) SendDice(ctx context.Context, chatID int64, emoji string) (int, error) {
	params := url.Values{
		"chat_id": {fmt.Sprintf("%d", chatID)},
		"emoji":   {emoji},
	}

	result, err := c.call(ctx, "sendDice", params)
	if err != nil {
		return 0, apperrors.NewTelegramAPIError("sendDice", err)
	}

	var msg Message
	if err := json.Unmarshal(result, &msg); err != nil {
		return 0, fmt.Errorf("failed to parse dice message: %w", err)
	}
	if msg.Dice == nil {
		return 0, fmt.Errorf("sendDice response has no dice value")
	}
	return msg.Dice.Value, nil
}

// AnswerCallbackQuery подтверждает нажатие inline-кнопки.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	params := url.Values{
		"callback_query_id": {callbackID},
	}
	if text != "" {
		params.Set("text", text)
	}

	if _, err := c.call(ctx, "answerCallbackQuery", params); err != nil {
		return apperrors.NewTelegramAPIError("answerCallbackQuery", err)
	}
	return nil
}

// SetMyCommands публикует список команд бота в меню Telegram.
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	payload, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("failed to marshal commands: %w", err)
	}

	params := url.Values{
		"commands": {string(payload)},
	}
	if _, err := c.call(ctx, "setMyCommands", params); err != nil {
		return apperrors.NewTelegramAPIError("setMyCommands", err)
	}
	return nil
}

// SetWebhook регистрирует URL вебхука с секретным токеном проверки.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	params := url.Values{
		"url": {webhookURL},
	}
	if secret != "" {
		params.Set("secret_token", secret)
	}

	if _, err := c.call(ctx, "setWebhook", params); err != nil {
		return apperrors.NewTelegramAPIError("setWebhook", err)
	}

	c.log.Info().Str("url", webhookURL).Msg("webhook registered")
	return nil
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", apiBase, c.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response Response
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !response.Ok {
		if response.ErrorCode == http.StatusTooManyRequests {
			return nil, &RPSError{Msg: "too many requests"}
		}
		return nil, fmt.Errorf("telegram API error: %s", response.Description)
	}
	return response.Result, nil
}
