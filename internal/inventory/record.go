package inventory

import "strings"

// Condition describes whether a listing is factory-new or second-hand.
type Condition string

const (
	ConditionNew  Condition = "New"
	ConditionUsed Condition = "Used"
)

// Category separates drivable trucks from storage equipment.
type Category string

const (
	CategoryTruck     Category = "truck"
	CategoryAccessory Category = "accessory"
)

// Record is one vehicle or equipment listing from the knowledge base.
// Built once at load time and never mutated afterwards.
type Record struct {
	Title     string
	Capacity  string
	Condition Condition
	Year      int // 0 when unknown; otherwise 2000-2030
	Mileage   string
	Features  []string
	ImageURL  string
	DetailURL string
	Category  Category
}

// DealerRecord is one free-text dealer-network block, keyed by brand tag.
type DealerRecord struct {
	Brand string
	Text  string
}

// parseCondition normalizes the source condition column. Anything that reads
// as second-hand maps to Used; everything else is New.
func parseCondition(raw string) Condition {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "used", "second-hand", "second hand", "pre-owned":
		return ConditionUsed
	default:
		return ConditionNew
	}
}

// parseCategory flags storage equipment. Tackboxes are listed alongside
// trucks in the source feed but are not vehicles.
func parseCategory(title string) Category {
	if strings.Contains(strings.ToLower(title), "tackbox") {
		return CategoryAccessory
	}
	return CategoryTruck
}

// validYear bounds model years to the range the source system emits.
func validYear(y int) bool {
	return y >= 2000 && y <= 2030
}
