package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the demo catalog loaded into a fresh database
type Fixtures struct {
	Categories  []CategoryFixture   `yaml:"categories"`
	Ingredients []IngredientFixture `yaml:"ingredients"`
	Users       []UserFixture       `yaml:"users"`
	Recipes     []RecipeFixture     `yaml:"recipes"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"`
	Featured    bool   `yaml:"featured"`
}

type IngredientFixture struct {
	Name     string `yaml:"name"`
	Unit     string `yaml:"unit"`
	Category string `yaml:"category"`
}

// UserFixture leaves Password empty to use the seeder's default password
type UserFixture struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Bio      string `yaml:"bio"`
	Role     string `yaml:"role"`
	Verified bool   `yaml:"verified"`
}

// RecipeFixture references its author by username and categories by slug
type RecipeFixture struct {
	Title        string           `yaml:"title"`
	Author       string           `yaml:"author"`
	Description  string           `yaml:"description"`
	Instructions string           `yaml:"instructions"`
	PrepTime     int              `yaml:"prep_time"`
	CookTime     int              `yaml:"cook_time"`
	Servings     int              `yaml:"servings"`
	Difficulty   string           `yaml:"difficulty"`
	Published    *bool            `yaml:"published"`
	Featured     bool             `yaml:"featured"`
	Categories   []string         `yaml:"categories"`
	Ingredients  []IngredientLine `yaml:"ingredients"`
}

type IngredientLine struct {
	Name     string  `yaml:"name"`
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
	Notes    string  `yaml:"notes"`
}

// Default returns the fixtures bundled into the binary
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// LoadFile reads fixtures from a YAML file on disk
func LoadFile(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}
