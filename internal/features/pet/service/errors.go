package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoPet — у пользователя ещё нет букашки.
	ErrNoPet = errors.New("pet not found")

	// ErrPetExists — букашка уже заведена.
	ErrPetExists = errors.New("pet already exists")

	// ErrAdventuring — букашка в приключении, действие недоступно.
	ErrAdventuring = errors.New("pet is adventuring")

	// ErrFeedTooLow — сытость слишком низкая, нужен осознанный риск.
	ErrFeedTooLow = errors.New("feed too low, confirmation required")

	// ErrNotEnoughCoins — не хватает монет на покупку или ставку.
	ErrNotEnoughCoins = errors.New("not enough coins")

	// ErrBoostRedundant — такой буст уже активен.
	ErrBoostRedundant = errors.New("boost already active")

	// ErrUnknownBoost — магазин такого не продаёт.
	ErrUnknownBoost = errors.New("unknown boost")
)

// CooldownError возвращается, когда действие вызвано раньше, чем истёк кулдаун.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, %s remaining", e.Remaining)
}

// AsCooldown распаковывает CooldownError из цепочки ошибок.
func AsCooldown(err error) (*CooldownError, bool) {
	var ce *CooldownError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// checkCooldown проверяет, прошёл ли кулдаун d с момента last.
// Совпадающие или «из прошлого» метки времени тоже считаются нарушением.
func checkCooldown(last *time.Time, d time.Duration, now time.Time) error {
	if last == nil {
		return nil
	}
	if !now.After(*last) {
		return &CooldownError{Remaining: d}
	}
	if rem := last.Add(d).Sub(now); rem > 0 {
		return &CooldownError{Remaining: rem}
	}
	return nil
}
