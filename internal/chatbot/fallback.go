package chatbot

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/grubhouse/storefront-api/internal/models"
)

var budgetPattern = regexp.MustCompile(`₹?\s*(\d+)`)

// keywordReply is the model-free responder: it matches the message against
// a fixed set of intents over the already-fetched catalog.
func (s *Service) keywordReply(message string, products []models.Product, orders []models.Order, authenticated bool) *Response {
	msg := strings.ToLower(message)

	switch {
	case strings.Contains(msg, "budget") || strings.Contains(msg, "price") || strings.Contains(msg, "under") || strings.Contains(msg, "₹"):
		if budget, ok := parseBudget(msg); ok {
			matched := filterProducts(products, func(p models.Product) bool {
				return p.Price <= float64(budget)
			})
			return &Response{
				Text:     fmt.Sprintf("Here are some great options under ₹%d:", budget),
				Products: summarize(matched),
			}
		}
		return &Response{
			Text: `Could you please specify your budget? For example, "under ₹200"`,
		}

	case strings.Contains(msg, "spicy"):
		matched := filterProducts(products, func(p models.Product) bool {
			return containsFold(p.Name, "spicy") || containsFold(p.Description, "spicy")
		})
		return &Response{
			Text:     "Here are some spicy options for you:",
			Products: summarize(matched),
		}

	case strings.Contains(msg, "vegetarian") || strings.Contains(msg, "veg"):
		matched := filterProducts(products, func(p models.Product) bool {
			return !containsFold(p.Name, "chicken") &&
				!containsFold(p.Name, "beef") &&
				!containsFold(p.Name, "meat") &&
				!containsFold(p.Name, "pork")
		})
		return &Response{
			Text:     "Here are some vegetarian options:",
			Products: summarize(matched),
		}

	case strings.Contains(msg, "healthy") || strings.Contains(msg, "nutrition") || strings.Contains(msg, "low calorie"):
		sorted := make([]models.Product, len(products))
		copy(sorted, products)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Nutrition.Calories < sorted[j].Nutrition.Calories
		})
		return &Response{
			Text:     "Here are some healthier options with lower calories:",
			Products: summarize(limit(sorted)),
		}

	case strings.Contains(msg, "burger"):
		matched := filterProducts(products, func(p models.Product) bool {
			return p.Category == models.CategoryBurgers
		})
		return &Response{
			Text:     "Here are our burger options:",
			Products: summarize(matched),
		}

	case strings.Contains(msg, "drink") || strings.Contains(msg, "beverage"):
		matched := filterProducts(products, func(p models.Product) bool {
			return p.Category == models.CategoryBeverages
		})
		return &Response{
			Text:     "Here are our beverage options:",
			Products: summarize(matched),
		}

	case isHistoryQuestion(msg):
		if !authenticated {
			return &Response{Text: "Please login to view your order history."}
		}
		return &Response{
			Text:        fmt.Sprintf("You have %d recent orders. Would you like to reorder any?", len(orders)),
			Suggestions: reorderSuggestions(orders),
		}

	default:
		return &Response{
			Text:        "Here are some popular items. You can ask me to suggest items by budget, preferences (spicy, vegetarian, healthy), or browse by category (burgers, beverages, etc.)",
			Products:    summarize(limit(products)),
			Suggestions: defaultSuggestions(),
		}
	}
}

func isHistoryQuestion(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "order history") ||
		strings.Contains(msg, "previous orders") ||
		strings.Contains(msg, "my orders")
}

func parseBudget(msg string) (int, bool) {
	match := budgetPattern.FindStringSubmatch(msg)
	if match == nil {
		return 0, false
	}
	budget, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return budget, true
}

func filterProducts(products []models.Product, keep func(models.Product) bool) []models.Product {
	var matched []models.Product
	for _, p := range products {
		if keep(p) {
			matched = append(matched, p)
			if len(matched) == maxRecommendedProducts {
				break
			}
		}
	}
	return matched
}

func limit(products []models.Product) []models.Product {
	if len(products) > maxRecommendedProducts {
		return products[:maxRecommendedProducts]
	}
	return products
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
