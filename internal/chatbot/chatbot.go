package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

const (
	maxRecommendedProducts = 5
	recentOrderLimit       = 5
)

// ProductRepository is the catalog access the chatbot needs.
type ProductRepository interface {
	GetAll(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error)
}

// OrderRepository is the order-history access the chatbot needs.
type OrderRepository interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Order, error)
}

// ProductSummary is the trimmed product view returned in chat responses.
type ProductSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// Suggestion is a follow-up action offered alongside a chat response.
type Suggestion struct {
	Type    string             `json:"type"`
	Text    string             `json:"text,omitempty"`
	OrderID string             `json:"orderId,omitempty"`
	Items   []models.OrderItem `json:"items,omitempty"`
}

// Response is a chat turn: the assistant text plus any products it
// recommended and follow-up suggestions.
type Response struct {
	Text        string           `json:"text"`
	Products    []ProductSummary `json:"products"`
	Suggestions []Suggestion     `json:"suggestions"`
}

// Service answers customer chat messages. With a configured model it asks
// the LLM with the catalog as context; without one, or when the model call
// fails, it falls back to keyword matching so the request never errors out.
type Service struct {
	model    llms.Model
	products ProductRepository
	orders   OrderRepository
	log      *slog.Logger
}

// NewService creates a chatbot service. model may be nil, in which case
// only the keyword fallback is used.
func NewService(model llms.Model, products ProductRepository, orders OrderRepository, log *slog.Logger) *Service {
	return &Service{
		model:    model,
		products: products,
		orders:   orders,
		log:      log,
	}
}

// Reply answers a single chat message. userID is empty for anonymous
// callers; when set, recent orders personalize the answer.
func (s *Service) Reply(ctx context.Context, message, userID string) (*Response, error) {
	var (
		products []models.Product
		orders   []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.GetAll(gctx, repository.ProductFilter{AvailableOnly: true})
		return err
	})
	if userID != "" {
		if uid, err := primitive.ObjectIDFromHex(userID); err == nil {
			g.Go(func() error {
				var err error
				orders, err = s.orders.ListByUser(gctx, uid, recentOrderLimit)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	authenticated := userID != ""

	if s.model == nil {
		return s.keywordReply(message, products, orders, authenticated), nil
	}

	text, err := s.generate(ctx, message, products, orders)
	if err != nil {
		s.log.Warn("chat model call failed, using keyword fallback", "error", err)
		return s.keywordReply(message, products, orders, authenticated), nil
	}

	recommended := mentionedProducts(text, products)

	var suggestions []Suggestion
	if isHistoryQuestion(message) && authenticated {
		suggestions = reorderSuggestions(orders)
	} else if len(recommended) == 0 {
		suggestions = defaultSuggestions()
	}

	return &Response{
		Text:        text,
		Products:    summarize(recommended),
		Suggestions: suggestions,
	}, nil
}

func (s *Service) generate(ctx context.Context, message string, products []models.Product, orders []models.Order) (string, error) {
	resp, err := s.model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt(products, orders)),
			llms.TextParts(schema.ChatMessageTypeHuman, message),
		},
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(500),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("model returned no content")
	}
	return resp.Choices[0].Content, nil
}

func systemPrompt(products []models.Product, orders []models.Order) string {
	var b strings.Builder
	b.WriteString("You are a friendly AI ordering assistant for a fast-food restaurant. ")
	b.WriteString("Help customers find the perfect meal based on their preferences, budget, dietary restrictions, or cravings.\n\n")
	b.WriteString("Available Products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (₹%g): %s. Category: %s. Calories: %g.", p.Name, p.Price, p.Description, p.Category, p.Nutrition.Calories)
		if p.Customizable {
			b.WriteString(" Customizable.")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nYour role:\n")
	b.WriteString("1. Understand customer requests (budget, preferences, dietary needs, cravings)\n")
	b.WriteString("2. Recommend relevant products from the list above\n")
	b.WriteString("3. Be conversational, friendly, and helpful\n")
	b.WriteString("4. Keep responses concise (2-3 sentences max) unless asked for details\n")
	b.WriteString("5. Always mention product names and prices when recommending\n")

	if len(orders) > 0 {
		b.WriteString("\nUser's recent orders:\n")
		for _, order := range orders {
			fmt.Fprintf(&b, "- total ₹%g:", order.Total)
			for _, item := range order.Items {
				fmt.Fprintf(&b, " %dx %s", item.Quantity, item.Name)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond naturally and helpfully.")
	return b.String()
}

// mentionedProducts returns catalog products whose names appear in the
// model's answer, preserving catalog order.
func mentionedProducts(text string, products []models.Product) []models.Product {
	lower := strings.ToLower(text)
	var matched []models.Product
	for _, p := range products {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			matched = append(matched, p)
			if len(matched) == maxRecommendedProducts {
				break
			}
		}
	}
	return matched
}

func reorderSuggestions(orders []models.Order) []Suggestion {
	suggestions := make([]Suggestion, 0, len(orders))
	for _, order := range orders {
		suggestions = append(suggestions, Suggestion{
			Type:    "reorder",
			OrderID: order.ID.Hex(),
			Items:   order.Items,
		})
	}
	return suggestions
}

func defaultSuggestions() []Suggestion {
	return []Suggestion{
		{Type: "suggestion", Text: "Show me items under ₹200"},
		{Type: "suggestion", Text: "I want something spicy"},
		{Type: "suggestion", Text: "Show vegetarian options"},
	}
}

func summarize(products []models.Product) []ProductSummary {
	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, ProductSummary{
			ID:          p.ID.Hex(),
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Image:       p.Image,
			Category:    p.Category,
		})
	}
	return summaries
}
