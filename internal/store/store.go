// Package store loads the keyword-to-category mapping.
package store

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"
	"edocta/edocta-csv/internal/parsererror"
)

//go:embed categories.yaml
var defaultCategories []byte

// DefaultCategoriesName labels the mapping compiled into the binary.
const DefaultCategoriesName = "embedded:categories.yaml"

// CategoryStore loads category definitions from a YAML file, or from the embedded
// default when no file is configured.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for categoriesFile. An empty name selects the
// embedded default mapping.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &CategoryStore{CategoriesFile: categoriesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".edocta-csv", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".edocta-csv", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Source names where LoadCategories reads from.
func (s *CategoryStore) Source() string {
	if s.CategoriesFile == "" {
		return DefaultCategoriesName
	}
	return s.CategoriesFile
}

// LoadCategories reads and validates the mapping. Declaration order is preserved
// because it breaks ties between keywords of equal length.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	if s.CategoriesFile == "" {
		categories, err := ParseCategories(defaultCategories)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Loaded embedded categories", logging.F(logging.FieldCount, len(categories)))
		return categories, nil
	}

	filePath, err := s.FindConfigFile(s.CategoriesFile)
	if err != nil {
		return nil, &parsererror.ValidationError{FilePath: s.CategoriesFile, Reason: "categories file not found"}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	categories, err := ParseCategories(data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded categories",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(categories)))
	return categories, nil
}

// ParseCategories decodes a mapping document. Both the "categories:" form and a
// bare top-level list are accepted.
func ParseCategories(data []byte) ([]models.CategoryConfig, error) {
	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil || len(cfg.Categories) == 0 {
		var list []models.CategoryConfig
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			if err == nil {
				err = listErr
			}
			return nil, &parsererror.ParseError{Parser: "categories", Field: "document", Value: snippet(data), Err: err}
		}
		cfg.Categories = list
	}

	for i, c := range cfg.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, &parsererror.ParseError{
				Parser: "categories",
				Field:  fmt.Sprintf("categories[%d].name", i),
				Err:    fmt.Errorf("category name is required"),
			}
		}
		switch c.Type {
		case "", models.CategoryTypeIncome, models.CategoryTypeExpenses:
		default:
			return nil, &parsererror.ParseError{
				Parser: "categories",
				Field:  fmt.Sprintf("categories[%d].type", i),
				Value:  c.Type,
				Err:    fmt.Errorf("type must be %q or %q", models.CategoryTypeIncome, models.CategoryTypeExpenses),
			}
		}
	}
	return cfg.Categories, nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
