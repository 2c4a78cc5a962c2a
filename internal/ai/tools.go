package ai

import "github.com/google/generative-ai-go/genai"

var tools = []*genai.Tool{
	{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "check_inventory",
				Description: "List every product with id, name, category, stock, price and cost. Call it first when you need a product ID.",
			},
			{
				Name:        "update_product_price",
				Description: "Set a product's sale price. Look the ID up with check_inventory; negative prices are rejected.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"product_id": {Type: genai.TypeInteger, Description: "Product ID from check_inventory"},
						"new_price":  {Type: genai.TypeNumber, Description: "Sale price, zero or more"},
					},
					Required: []string{"product_id", "new_price"},
				},
			},
			{
				Name:        "create_product",
				Description: "Register a product that is not in the catalog yet, with its opening stock.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":           {Type: genai.TypeString, Description: "Display name"},
						"price":          {Type: genai.TypeNumber, Description: "Sale price, zero or more"},
						"category":       {Type: genai.TypeString, Description: "Shelf group, e.g. Bakery or Drinks"},
						"stock_quantity": {Type: genai.TypeInteger, Description: "Units on hand"},
					},
					Required: []string{"name", "price", "category", "stock_quantity"},
				},
			},
			{
				Name:        "get_sales_report",
				Description: "Totals between two shop dates, both days included: revenue, sales_count, expenses and net (revenue minus expenses).",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"start_date": {Type: genai.TypeString, Description: "First day, YYYY-MM-DD"},
						"end_date":   {Type: genai.TypeString, Description: "Last day, YYYY-MM-DD"},
					},
					Required: []string{"start_date", "end_date"},
				},
			},
			{
				Name:        "get_invoice",
				Description: "Fetch one invoice with customer, lines and totals. The ID is the number without prefix: F-00000012 is 12.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"invoice_id": {Type: genai.TypeInteger, Description: "Invoice ID"},
					},
					Required: []string{"invoice_id"},
				},
			},
		},
	},
}
