package core

// Category is a transaction category key such as "food" or "salary".
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryUtilities     Category = "utilities"
	CategoryRent          Category = "rent"
	CategorySalary        Category = "salary"
	CategoryFreelance     Category = "freelance"
	CategoryInvestment    Category = "investment"
	CategoryOther         Category = "other"
)

var categoryNames = map[Category]string{
	CategoryFood:          "Food & Dining",
	CategoryTransport:     "Transportation",
	CategoryEntertainment: "Entertainment",
	CategoryShopping:      "Shopping",
	CategoryHealth:        "Healthcare",
	CategoryEducation:     "Education",
	CategoryUtilities:     "Utilities",
	CategoryRent:          "Rent",
	CategorySalary:        "Salary",
	CategoryFreelance:     "Freelance",
	CategoryInvestment:    "Investment",
	CategoryOther:         "Other",
}

// Categories lists the known category keys in display order.
func Categories() []Category {
	return []Category{
		CategoryFood, CategoryTransport, CategoryEntertainment, CategoryShopping,
		CategoryHealth, CategoryEducation, CategoryUtilities, CategoryRent,
		CategorySalary, CategoryFreelance, CategoryInvestment, CategoryOther,
	}
}

// IsKnown reports whether c is one of the predefined categories.
func (c Category) IsKnown() bool {
	_, ok := categoryNames[c]
	return ok
}

// Name returns the display name; unknown keys display as "Other".
func (c Category) Name() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return categoryNames[CategoryOther]
}

// Normalize folds unknown keys into CategoryOther.
func (c Category) Normalize() Category {
	if c.IsKnown() {
		return c
	}
	return CategoryOther
}
