// Package rubric defines the fixed scoring categories, their rubrics,
// and their weights. The catalog is built once at startup and passed
// explicitly to the scorer and aggregator; the category set is closed
// and model output is validated against it rather than extending it.
package rubric

import "fmt"

// Category names. This set is closed: every category name used
// anywhere in the pipeline must resolve here.
const (
	DataCollection      = "Data Collection"
	DataSharing         = "Data Sharing"
	DataRetentionSec    = "Data Retention and Security"
	UserRightsControls  = "User Rights and Controls"
	TransparencyClarity = "Transparency and Clarity"
)

// Anchor is one graduated rubric entry: a score level and the practice
// description that earns it.
type Anchor struct {
	Description string
	Score       float64
}

// Category is one fixed dimension of privacy practice evaluation.
type Category struct {
	Name   string
	Rubric []Anchor
	Weight float64
}

// Catalog holds the fixed categories in a stable order with constant
// lookup by name. Immutable after New.
type Catalog struct {
	byName map[string]Category
	names  []string
}

// New builds the catalog of the five scoring categories.
func New() *Catalog {
	categories := []Category{
		{Name: DataCollection, Weight: 1.0, Rubric: dataCollectionRubric},
		{Name: DataSharing, Weight: 1.5, Rubric: dataSharingRubric},
		{Name: DataRetentionSec, Weight: 1.2, Rubric: dataRetentionRubric},
		{Name: UserRightsControls, Weight: 1.0, Rubric: userRightsRubric},
		{Name: TransparencyClarity, Weight: 0.8, Rubric: transparencyRubric},
	}

	c := &Catalog{
		byName: make(map[string]Category, len(categories)),
		names:  make([]string, 0, len(categories)),
	}
	for _, cat := range categories {
		c.byName[cat.Name] = cat
		c.names = append(c.names, cat.Name)
	}
	return c
}

// Names returns the category names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Categories returns all categories in catalog order.
func (c *Catalog) Categories() []Category {
	categories := make([]Category, len(c.names))
	for i, name := range c.names {
		categories[i] = c.byName[name]
	}
	return categories
}

// Get returns the category for name, or an error if the name is not in
// the closed set.
func (c *Catalog) Get(name string) (Category, error) {
	cat, ok := c.byName[name]
	if !ok {
		return Category{}, fmt.Errorf("unknown scoring category: %q", name)
	}
	return cat, nil
}

// Contains reports whether name is a catalog category.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Weight returns the relative weight for name. Unknown names return an
// error rather than a zero weight so misuse is visible.
func (c *Catalog) Weight(name string) (float64, error) {
	cat, err := c.Get(name)
	if err != nil {
		return 0, err
	}
	return cat.Weight, nil
}

// TotalWeight returns the sum of all category weights.
func (c *Catalog) TotalWeight() float64 {
	var total float64
	for _, name := range c.names {
		total += c.byName[name].Weight
	}
	return total
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.names)
}
