package core

// CategoryShare is a category total with its share of all spending.
type CategoryShare struct {
	Category   Category
	Amount     Money
	Percentage float64 // 0-100
}

// MonthAmount is the spending of one calendar month.
type MonthAmount struct {
	Year   int
	Month  int    // 1-12
	Label  string // display only, e.g. "Jan 2024"
	Amount Money
}

// Insights summarizes an expense collection relative to a reference instant.
type Insights struct {
	TopCategories  []CategoryShare
	MonthlyTrend   []MonthAmount
	TotalThisMonth Money
	AverageDaily   float64 // currency units per day of the current month so far
}
