package categorizer

import "spendlens/internal/core"

// Rule lists the keywords that vote for a category.
type Rule struct {
	Category core.Category
	Keywords []string
}

// DefaultTable returns the built-in keyword table in category declaration order.
// Keywords are lower case.
func DefaultTable() []Rule {
	out := make([]Rule, len(defaultTable))
	for i, r := range defaultTable {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

var defaultTable = []Rule{
	{core.CategoryFood, []string{
		"restaurant", "food", "lunch", "dinner", "breakfast", "coffee", "pizza", "burger",
		"grocery", "supermarket", "cafe", "bar", "pub", "takeout", "delivery", "uber eats",
		"doordash", "grubhub", "starbucks", "mcdonald", "kfc", "subway", "domino", "taco bell",
	}},
	{core.CategoryTransport, []string{
		"gas", "fuel", "uber", "lyft", "taxi", "bus", "train", "metro", "parking", "car",
		"vehicle", "maintenance", "repair", "oil change", "tire", "insurance", "toll",
	}},
	{core.CategoryShopping, []string{
		"amazon", "store", "mall", "clothes", "clothing", "shoes", "electronics", "target",
		"walmart", "costco", "online", "purchase", "buy", "shopping", "ebay", "etsy",
	}},
	{core.CategoryEntertainment, []string{
		"movie", "cinema", "netflix", "spotify", "game", "concert", "show", "theater",
		"streaming", "subscription", "youtube", "disney", "hulu", "entertainment", "ticket",
	}},
	{core.CategoryBills, []string{
		"electric", "electricity", "water", "gas bill", "internet", "phone", "rent", "mortgage",
		"insurance", "utility", "bill", "payment", "subscription", "cable",
	}},
	{core.CategoryHealthcare, []string{
		"doctor", "hospital", "pharmacy", "medicine", "medical", "health", "dental",
		"prescription", "clinic", "checkup", "treatment", "therapy", "dentist",
	}},
	{core.CategoryTravel, []string{
		"hotel", "flight", "airline", "booking", "vacation", "trip", "travel", "airbnb",
		"expedia", "booking.com", "rental car", "luggage", "passport",
	}},
	{core.CategoryEducation, []string{
		"school", "university", "course", "book", "tuition", "education", "learning",
		"training", "certification", "udemy", "coursera", "textbook", "student",
	}},
	{core.CategoryBusiness, []string{
		"office", "supplies", "meeting", "conference", "business", "work", "professional",
		"software", "tools", "equipment", "service", "client",
	}},
	{core.CategoryOther, nil},
}
