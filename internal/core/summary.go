package core

import "github.com/shopspring/decimal"

// CategorySummary is the overview line for one plan category.
type CategorySummary struct {
	Group     string
	Category  string
	Assigned  decimal.Decimal
	Activity  decimal.Decimal
	Available decimal.Decimal
}

// CategoryGroup lists the categories of one group in plan order.
type CategoryGroup struct {
	Name       string
	Categories []string
}
