package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryLabel is one allowed category with its allowed sub-categories.
type CategoryLabel struct {
	Name          string   `yaml:"name"`
	SubCategories []string `yaml:"sub_categories"`
}

// LabelSet is the allowed-label configuration the categorization ledger
// reconciles against on startup.
type LabelSet struct {
	Categories []CategoryLabel `yaml:"categories"`
}

// Allows reports whether the (category, subCategory) pair is configured.
// An empty subCategory only checks the category.
func (s LabelSet) Allows(category, subCategory string) bool {
	for _, c := range s.Categories {
		if c.Name != category {
			continue
		}
		if subCategory == "" {
			return true
		}
		for _, sub := range c.SubCategories {
			if sub == subCategory {
				return true
			}
		}
		return false
	}
	return false
}

// LoadCategoryLabels reads a YAML label file. An empty path yields the
// built-in defaults.
func LoadCategoryLabels(path string) (LabelSet, error) {
	if path == "" {
		return DefaultCategoryLabels(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return LabelSet{}, fmt.Errorf("read category labels: %w", err)
	}
	var set LabelSet
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return LabelSet{}, fmt.Errorf("parse category labels: %w", err)
	}
	seen := make(map[string]bool, len(set.Categories))
	for _, c := range set.Categories {
		if c.Name == "" {
			return LabelSet{}, fmt.Errorf("category labels: empty category name")
		}
		if seen[c.Name] {
			return LabelSet{}, fmt.Errorf("category labels: duplicate category %q", c.Name)
		}
		seen[c.Name] = true
	}
	return set, nil
}

// DefaultCategoryLabels returns the built-in label configuration.
func DefaultCategoryLabels() LabelSet {
	return LabelSet{Categories: []CategoryLabel{
		{Name: "Savings", SubCategories: []string{"Savings account"}},
		{Name: "Investment", SubCategories: []string{"Brokerage account", "Other"}},
		{Name: "Income", SubCategories: []string{
			"Benefits", "Salary", "Investment income", "Pensions", "Interest", "Rent received",
			"Dividends", "Refunds", "Cheques received", "Loan disbursement",
			"Transfers received", "Internal transfers", "Cashback", "Other",
		}},
		{Name: "Subscriptions", SubCategories: []string{"Phone", "Internet", "Streaming", "Software", "Music"}},
		{Name: "Taxes", SubCategories: []string{
			"Duties", "Income tax", "Wealth tax", "Property tax", "Housing tax",
			"Social contributions", "Capital gains tax",
		}},
		{Name: "Banking", SubCategories: []string{
			"Loan repayment", "Fees", "Deferred card debit", "Cash withdrawal", "Other",
		}},
		{Name: "Housing", SubCategories: []string{
			"Energy", "Water", "Heating", "Rent", "Mortgage", "DIY and gardening",
			"Home insurance", "Furniture and appliances", "Other",
		}},
		{Name: "Leisure", SubCategories: []string{
			"Travel", "Restaurants", "Bars", "Nightclubs", "Culture", "Sports",
			"Outings", "Lost bets", "Concerts", "Shows", "Other",
		}},
		{Name: "Health", SubCategories: []string{"Doctor", "Pharmacy", "Dentist", "Health insurance", "Optician", "Hospital"}},
		{Name: "Transport", SubCategories: []string{
			"Vehicle insurance", "Car loan", "Fuel", "Vehicle maintenance", "Public transport",
			"Flights", "Trains", "Taxis", "Vehicle rental", "Tolls", "Parking",
		}},
		{Name: "Daily life", SubCategories: []string{
			"Groceries", "Pets", "Hairdresser and care", "Clothing", "Shopping", "Video games",
			"Postage", "Electronics", "Home help", "Gifts", "Currency exchange", "Other",
		}},
	}}
}
