package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bukashka-bot/internal/common/middleware"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/service"
	"bukashka-bot/internal/utils/timefmt"
)

// PetHandler отдаёт состояние букашки мини-приложению.
type PetHandler struct {
	pets       *service.PetService
	adventures *service.AdventureService
}

func NewPetHandler(pets *service.PetService, adventures *service.AdventureService) *PetHandler {
	return &PetHandler{pets: pets, adventures: adventures}
}

func (h *PetHandler) RegisterRoutes(router *gin.RouterGroup) {
	pets := router.Group("/pet")
	{
		pets.GET("", h.getMyPet)
	}
}

// PetResponse — представление букашки для мини-приложения.
type PetResponse struct {
	Name          string `json:"name"`
	Level         int    `json:"level"`
	LevelProgress int    `json:"level_progress"`
	Feed          int    `json:"feed"`
	Happy         int    `json:"happy"`
	Coins         int    `json:"coins"`
	Age           string `json:"age"`
	Boost         string `json:"boost,omitempty"`
	Image         string `json:"image,omitempty"`
	IsAdventuring bool   `json:"is_adventuring"`
	ReturnsInSec  int64  `json:"returns_in_sec,omitempty"`
}

func (h *PetHandler) getMyPet(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pet, err := h.pets.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoPet) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	now := time.Now()
	resp := PetResponse{
		Name:          pet.Name,
		Level:         pet.LevelTier(),
		LevelProgress: pet.LevelProgress(),
		Feed:          pet.Feed,
		Happy:         pet.Happy,
		Coins:         pet.Coins,
		Age:           timefmt.Age(pet.CreationDate, now),
		Image:         pet.Image,
		IsAdventuring: pet.IsAdventuring,
	}
	if pet.Boost != models.BoostNone {
		resp.Boost = string(pet.Boost)
	}
	if deadline, ok := h.adventures.Deadline(pet); ok {
		if remaining := deadline.Sub(now); remaining > 0 {
			resp.ReturnsInSec = int64(remaining / time.Second)
		}
	}

	c.JSON(http.StatusOK, resp)
}
