// Package ai is the Gemini-backed shop assistant. The model decides which
// tool to call; the tools themselves run against the shop database.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-pos/internal/database"
	"go-pos/internal/invoices"
	"go-pos/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

const (
	defaultModel  = "gemini-2.0-flash-001"
	maxToolRounds = 5
	dateLayout    = "2006-01-02"
)

var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrBadArgument  = errors.New("bad tool argument")
	errNoCandidates = errors.New("model returned no candidates")
)

type Agent struct {
	apiKey   string
	model    string
	db       *gorm.DB
	invoices *invoices.Service
	now      func() time.Time
}

func NewAgent(apiKey string, db *gorm.DB, inv *invoices.Service) *Agent {
	return &Agent{apiKey: apiKey, model: defaultModel, db: db, invoices: inv, now: time.Now}
}

func (a *Agent) systemPrompt() string {
	today := a.now().In(a.invoices.Location()).Format(dateLayout)
	return fmt.Sprintf(`Today is %s. You help the staff of a small shop run their point of sale.

- Products are named by people but changed by ID: resolve names with 'check_inventory' before 'update_product_price'. Never ask the user for an ID.
- Stock, prices and costs come from 'check_inventory'. Answer from its result instead of saying the data is unavailable.
- Revenue, sales counts, expenses and net come from 'get_sales_report'. Dates are shop dates in YYYY-MM-DD.
- A single invoice ("F-00000012", "invoice 12") comes from 'get_invoice'.`, today)
}

// Ask runs one conversation turn, letting the model call tools until it
// answers in text.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)
	model.Tools = tools
	model.SystemInstruction = genai.NewUserContent(genai.Text(a.systemPrompt()))

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls, err := functionCalls(resp)
		if err != nil {
			return "", err
		}
		if len(calls) == 0 {
			return replyText(resp), nil
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := a.ExecuteTool(ctx, call)
			if err != nil {
				log.Printf("ai: tool %s: %v", call.Name, err)
				result = map[string]any{"error": err.Error()}
			}
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: result})
		}

		if resp, err = session.SendMessage(ctx, parts...); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("model kept calling tools after %d rounds", maxToolRounds)
}

func functionCalls(resp *genai.GenerateContentResponse) ([]genai.FunctionCall, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errNoCandidates
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls, nil
}

func replyText(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}

// ExecuteTool runs a single tool call. Results only hold values the genai
// client can send back (strings, numbers, maps and slices of those).
func (a *Agent) ExecuteTool(ctx context.Context, call genai.FunctionCall) (map[string]any, error) {
	switch call.Name {
	case "check_inventory":
		return a.checkInventory(ctx)
	case "update_product_price":
		return a.updateProductPrice(ctx, call.Args)
	case "create_product":
		return a.createProduct(ctx, call.Args)
	case "get_sales_report":
		return a.salesReport(ctx, call.Args)
	case "get_invoice":
		return a.invoice(ctx, call.Args)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
}

func (a *Agent) checkInventory(ctx context.Context) (map[string]any, error) {
	var products []models.Product
	if err := a.db.WithContext(ctx).Order("name asc").Find(&products).Error; err != nil {
		return nil, err
	}

	inventory := make([]any, 0, len(products))
	for _, p := range products {
		inventory = append(inventory, map[string]any{
			"id":       p.ID,
			"name":     p.Name,
			"category": p.Category,
			"stock":    p.StockQuantity,
			"price":    p.Price.String(),
			"cost":     p.CostPrice.String(),
		})
	}
	return map[string]any{"inventory": inventory}, nil
}

func (a *Agent) updateProductPrice(ctx context.Context, args map[string]any) (map[string]any, error) {
	id, err := intArg(args, "product_id")
	if err != nil {
		return nil, err
	}
	price, err := decimalArg(args, "new_price")
	if err != nil {
		return nil, err
	}

	res := a.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("price", price)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return map[string]any{"status": "Product ID not found"}, nil
	}
	return map[string]any{"status": "Success", "new_price": price.String()}, nil
}

func (a *Agent) createProduct(ctx context.Context, args map[string]any) (map[string]any, error) {
	name, err := stringArg(args, "name")
	if err != nil {
		return nil, err
	}
	price, err := decimalArg(args, "price")
	if err != nil {
		return nil, err
	}
	category, _ := args["category"].(string)
	stock, err := intArg(args, "stock_quantity")
	if err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock_quantity must not be negative", ErrBadArgument)
	}

	product := models.Product{
		Name:          name,
		Price:         price,
		Category:      category,
		StockQuantity: int(stock),
	}
	if err := a.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return map[string]any{"status": "created", "id": product.ID}, nil
}

func (a *Agent) salesReport(ctx context.Context, args map[string]any) (map[string]any, error) {
	loc := a.invoices.Location()
	start, err := dateArg(args, "start_date", loc)
	if err != nil {
		return nil, err
	}
	end, err := dateArg(args, "end_date", loc)
	if err != nil {
		return nil, err
	}
	// include the whole end day
	end = end.AddDate(0, 0, 1).Add(-time.Millisecond)

	report, err := database.GetSalesReport(ctx, a.db, start, end)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"revenue":     report.TotalRevenue.String(),
		"sales_count": report.TotalCount,
		"expenses":    report.TotalExpenses.String(),
		"net":         report.Net.String(),
	}, nil
}

func (a *Agent) invoice(ctx context.Context, args map[string]any) (map[string]any, error) {
	id, err := intArg(args, "invoice_id")
	if err != nil {
		return nil, err
	}

	detail, ok, err := a.invoices.Get(ctx, uint(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]any{"status": "Invoice not found"}, nil
	}

	items := make([]any, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, map[string]any{
			"name":       item.Name,
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice.String(),
			"line_total": item.LineTotal.String(),
		})
	}
	return map[string]any{
		"number":         detail.Number,
		"customer":       detail.Customer,
		"date":           detail.Date.String(),
		"payment_method": detail.PaymentMethod,
		"subtotal":       detail.Subtotal.String(),
		"discount":       detail.Discount.String(),
		"surcharge":      detail.Surcharge.String(),
		"tax":            detail.Tax.String(),
		"total":          detail.Total.String(),
		"items":          items,
	}, nil
}

// Numbers arrive from the model as float64.
func intArg(args map[string]any, name string) (int64, error) {
	v, ok := args[name].(float64)
	if !ok || v != float64(int64(v)) {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadArgument, name)
	}
	return int64(v), nil
}

func decimalArg(args map[string]any, name string) (decimal.Decimal, error) {
	v, ok := args[name].(float64)
	if !ok || v < 0 {
		return decimal.Zero, fmt.Errorf("%w: %s must be a non-negative number", ErrBadArgument, name)
	}
	return decimal.NewFromFloat(v), nil
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrBadArgument, name)
	}
	return v, nil
}

func dateArg(args map[string]any, name string, loc *time.Location) (time.Time, error) {
	v, _ := args[name].(string)
	t, err := time.ParseInLocation(dateLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrBadArgument, name)
	}
	return t, nil
}
