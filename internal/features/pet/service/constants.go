package service

import "time"

const (
	// Кулдауны действий пользователя
	FeedCooldown = 3 * time.Second
	GameCooldown = 60 * time.Second

	// Интервалы голодания и длительность бустов
	FeedDecayInterval = 15 * time.Minute
	FeedBoostDuration = 15 * time.Minute

	// Константы голодания за один интервал
	FeedDecayPerInterval  = 3
	HappyDecayPerInterval = 3

	// Активности стоят сытости: приключение и игра отнимают силы
	AdventureFeedCost = 2
	GameFeedCost      = 1

	// Приключения
	AdventureDuration = 30 * time.Second
	BoostSpeedup      = 1.5 // множитель бустов: короче приключение, мягче голодание
	LowFeedThreshold  = 10  // ниже — старт приключения требует подтверждения риска

	// Блокировка питомца на время обработки
	LockTTL = 30 * time.Second
)

// Цены магазина
const (
	PriceAdventureBoost = 100
	PriceHappyBoost     = 80
	PriceFeedBoost      = 65
)

// Казино
const (
	CasinoEntryPrice   = 20
	CasinoWinCoins     = 80
	CasinoWinHappy     = 10
	CasinoJackpotCoins = 500
	CasinoJackpotHappy = 30
)

// Диапазоны наград за приключение, выбираются по знаку исхода
const (
	HardCoinsMin, HardCoinsMax = 10, 50 // оба эффекта отрицательные
	MidCoinsMin, MidCoinsMax   = 5, 20  // хотя бы один положительный
	LowCoinsMin, LowCoinsMax   = 1, 5   // нейтральный исход

	HardLevelMin, HardLevelMax = 15, 18
	BaseLevelMin, BaseLevelMax = 3, 10
)

// HungerWarnThresholds — пороги предупреждений о голоде, по убыванию строгости.
var HungerWarnThresholds = [...]int{10, 5, 1}
