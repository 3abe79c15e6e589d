package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/grubhouse/storefront-api/internal/chatbot"
	"github.com/grubhouse/storefront-api/internal/middleware"
	"github.com/grubhouse/storefront-api/internal/service"
)

// AIHandler handles the chat assistant and recommendation endpoints.
type AIHandler struct {
	bot       *chatbot.Service
	recommend *service.RecommendService
	products  *service.ProductService
	log       *slog.Logger
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(bot *chatbot.Service, recommend *service.RecommendService, products *service.ProductService, log *slog.Logger) *AIHandler {
	return &AIHandler{
		bot:       bot,
		recommend: recommend,
		products:  products,
		log:       log,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/ai/chatbot
// Auth is optional: a logged-in user's order history personalizes answers.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "Message is required", h.log)
		return
	}

	var userID string
	if claims, ok := middleware.UserFromContext(r.Context()); ok {
		userID = claims.UserID
	}

	response, err := h.bot.Reply(r.Context(), req.Message, userID)
	if err != nil {
		h.log.Error("chatbot failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, response, h.log)
}

type recommendRequest struct {
	Budget      float64              `json:"budget,omitempty"`
	Preferences *service.Preferences `json:"preferences,omitempty"`
	PastOrders  *bool                `json:"pastOrders,omitempty"`
}

// Recommend handles POST /api/ai/recommend
func (h *AIHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	var userID string
	if claims, ok := middleware.UserFromContext(r.Context()); ok {
		// pastOrders=false opts out of history-based boosting.
		if req.PastOrders == nil || *req.PastOrders {
			userID = claims.UserID
		}
	}

	prefs := service.Preferences{}
	if req.Preferences != nil {
		prefs = *req.Preferences
	}

	recommendations, err := h.recommend.Recommend(r.Context(), userID, req.Budget, prefs)
	if err != nil {
		h.log.Error("recommendation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"recommendations": recommendations}, h.log)
}

// Nutrition handles GET /api/ai/nutrition
// Query parameters: maxCalories, maxFat, highProtein, lowCarbs.
func (h *AIHandler) Nutrition(w http.ResponseWriter, r *http.Request) {
	query := service.NutritionQuery{
		HighProtein: r.URL.Query().Get("highProtein") == "true",
		LowCarbs:    r.URL.Query().Get("lowCarbs") == "true",
	}
	if max, ok := parseFloatParam(r, "maxCalories"); ok {
		query.MaxCalories = &max
	}
	if max, ok := parseFloatParam(r, "maxFat"); ok {
		query.MaxFat = &max
	}

	products, err := h.products.FilterByNutrition(r.Context(), query)
	if err != nil {
		h.log.Error("nutrition filter failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"products": products}, h.log)
}
