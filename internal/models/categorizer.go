package models

// CategoryConfig represents a category configuration in the YAML file.
// Type is an optional hint and never overrides the sign-derived category type.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type,omitempty"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}
