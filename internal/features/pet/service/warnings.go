package service

import "bukashka-bot/internal/features/pet/models"

// resolveWarning обновляет маркер предупреждений после изменения сытости.
// Возвращает порог, о котором пора предупредить, если сытость провалилась
// сквозь него впервые с последнего восстановления. Каждый порог срабатывает
// не чаще одного раза: маркер сбрасывается, только когда сытость поднимается
// выше него.
func resolveWarning(pet *models.Pet, oldFeed int) (threshold int, warn bool) {
	if pet.Feed > oldFeed {
		if pet.Feed > pet.State.LastFeedWarning {
			pet.State.LastFeedWarning = models.NoWarning
		}
		return 0, false
	}

	for _, t := range HungerWarnThresholds {
		if oldFeed > t && pet.Feed <= t && t < pet.State.LastFeedWarning {
			pet.State.LastFeedWarning = t
			return t, true
		}
	}
	return 0, false
}
