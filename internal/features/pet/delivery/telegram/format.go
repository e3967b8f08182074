package telegram

import (
	"fmt"
	"strings"
	"time"

	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/service"
	"bukashka-bot/internal/utils/timefmt"
)

// escapeMD экранирует спецсимволы MarkdownV2. Имена букашек вводят люди,
// там бывает всё что угодно.
func escapeMD(s string) string {
	const special = "_*[]()~`>#+-=|{}.!"
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func boostLabel(b models.Boost) string {
	switch b {
	case models.BoostAdventure:
		return "буст приключений"
	case models.BoostHappy:
		return "буст счастья"
	case models.BoostFeed:
		return "буст сытости"
	default:
		return "нет"
	}
}

// petCard — карточка питомца для команды «моя букашка».
func petCard(pet *models.Pet, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🐛 *%s*\n\n", escapeMD(pet.Name))
	fmt.Fprintf(&b, "⭐ Уровень: %d \\(опыт %d/100\\)\n", pet.LevelTier(), pet.LevelProgress())
	fmt.Fprintf(&b, "🍽 Сытость: %d/100\n", pet.Feed)
	fmt.Fprintf(&b, "😊 Счастье: %d/100\n", pet.Happy)
	fmt.Fprintf(&b, "🪙 Монеты: %d\n", pet.Coins)
	fmt.Fprintf(&b, "🎂 Возраст: %s\n", escapeMD(timefmt.Age(pet.CreationDate, now)))
	fmt.Fprintf(&b, "✨ Буст: %s", escapeMD(boostLabel(pet.Boost)))
	if pet.IsAdventuring {
		b.WriteString("\n\n🗺 Сейчас в приключении\\!")
	}
	return b.String()
}

func feedResultText(report *service.FeedReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Букашке досталась *%s*\\!\n", escapeMD(report.Outcome.Name))
	fmt.Fprintf(&b, "🍽 Сытость: %s\n", escapeMD(signed(report.Outcome.Feed)))
	fmt.Fprintf(&b, "😊 Счастье: %s", escapeMD(signed(report.Outcome.Happiness)))
	if report.Died {
		b.WriteString("\n\n💀 Еда оказалась последней\\.\\.\\. Букашка погибла\\.")
	} else {
		fmt.Fprintf(&b, "\n\nТеперь сытость %d, счастье %d\\.", report.Pet.Feed, report.Pet.Happy)
	}
	return b.String()
}

func adventureReportText(report *service.AdventureReport) string {
	var b strings.Builder
	b.WriteString("🗺 Букашка вернулась из приключения\\!\n\n")
	fmt.Fprintf(&b, "_%s_\n\n", escapeMD(report.Outcome.Text))
	fmt.Fprintf(&b, "🍽 Сытость: %s\n", escapeMD(signed(report.FeedDelta)))
	fmt.Fprintf(&b, "😊 Счастье: %s\n", escapeMD(signed(report.HappyDelta)))
	fmt.Fprintf(&b, "🪙 Монеты: \\+%d\n", report.Coins)
	fmt.Fprintf(&b, "⭐ Опыт: \\+%d", report.LevelPoints)
	if report.Died {
		b.WriteString("\n\n💀 Приключение оказалось последним\\.\\.\\.")
	}
	return b.String()
}

func gameResultText(report *service.GameReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Выпало *%d*\\!\n", report.Value)
	fmt.Fprintf(&b, "😊 Счастье: %s", escapeMD(signed(report.HappyDelta)))
	if report.Coins > 0 {
		fmt.Fprintf(&b, "\n🪙 Выигрыш: \\+%d монет", report.Coins)
	}
	return b.String()
}

func casinoResultText(report *service.CasinoReport) string {
	switch report.Tier {
	case service.CasinoJackpot:
		return fmt.Sprintf("🎰 *ДЖЕКПОТ\\!* Три семёрки\\!\n🪙 \\+%d монет\n😊 \\+%d счастья", report.Coins, report.HappyDelta)
	case service.CasinoWin:
		return fmt.Sprintf("🎰 Три в ряд\\! Выигрыш\\!\n🪙 \\+%d монет\n😊 \\+%d счастья", report.Coins, report.HappyDelta)
	default:
		return fmt.Sprintf("🎰 Не повезло\\. Ставка %d монет сгорела\\.", service.CasinoEntryPrice)
	}
}

func obituaryText(ob *models.Obituary) string {
	return fmt.Sprintf(
		"💀 *%s* покидает нас\\.\\.\\.\n\nПричина: %s\nПрожито: %s\nУровень: %d\n\nПокойся с миром, маленький друг\\. 🕯",
		escapeMD(ob.Name),
		escapeMD(ob.Reason),
		escapeMD(timefmt.Duration(ob.Age)),
		ob.LastLevel/100,
	)
}

func hungerWarningText(pet *models.Pet, threshold int) string {
	switch {
	case threshold <= 1:
		return fmt.Sprintf("🆘 *%s* умирает от голода\\! Сытость: %d\\. Покормите немедленно\\!", escapeMD(pet.Name), pet.Feed)
	case threshold <= 5:
		return fmt.Sprintf("⚠️ *%s* очень голодна\\! Сытость: %d\\.", escapeMD(pet.Name), pet.Feed)
	default:
		return fmt.Sprintf("🍽 *%s* проголодалась\\. Сытость: %d\\.", escapeMD(pet.Name), pet.Feed)
	}
}

func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}
