package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"bukashka-bot/internal/common/logger"
)

// Ключи контекста gin, выставляемые после проверки init data
const (
	ContextUserKey   = "telegram_user"
	ContextUserIDKey = "telegram_user_id"
)

// TelegramInitData проверяет подпись Telegram Mini App init data.
// Данные принимаются из заголовка X-Telegram-Init-Data либо из
// query-параметра init_data.
func TelegramInitData(botToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Telegram-Init-Data")
		if raw == "" {
			raw = c.Query("init_data")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}

		// Подпись бессрочная: мини-приложение может висеть открытым долго
		if err := initdata.Validate(raw, botToken, time.Duration(0)); err != nil {
			logger.Debug().Err(err).Msg("init data validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data"})
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to parse init data"})
			return
		}

		c.Set(ContextUserKey, parsed.User)
		c.Set(ContextUserIDKey, parsed.User.ID)
		c.Next()
	}
}

// UserID достаёт идентификатор пользователя, положенный TelegramInitData.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
