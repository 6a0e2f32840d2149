// Package container provides dependency injection for the edocta-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"sync"

	"edocta/edocta-csv/internal/batch"
	"edocta/edocta-csv/internal/categorizer"
	"edocta/edocta-csv/internal/common"
	"edocta/edocta-csv/internal/config"
	"edocta/edocta-csv/internal/document"
	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/pipeline"
	"edocta/edocta-csv/internal/repository"
	"edocta/edocta-csv/internal/store"
)

// StoreOpener connects to the transaction store described by cfg.
type StoreOpener func(cfg *config.Config, logger logging.Logger) (repository.TransactionStore, error)

// Option customises container construction.
type Option func(*Container)

// WithLogger replaces the logger built from configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithAIClient injects an AI client instead of building a Gemini client.
func WithAIClient(client categorizer.AIClient) Option {
	return func(c *Container) { c.aiClient = client }
}

// WithDocumentOpener replaces the PDF opener used by the pipeline.
func WithDocumentOpener(opener document.Opener) Option {
	return func(c *Container) { c.opener = opener }
}

// WithStoreOpener replaces how the transaction store is opened.
func WithStoreOpener(opener StoreOpener) Option {
	return func(c *Container) { c.storeOpener = opener }
}

// Container holds all application dependencies and provides methods to access them.
// The transaction store is opened on first use, so file-mode commands never touch a database.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.CategoryStore
	aiClient    categorizer.AIClient
	gemini      *categorizer.GeminiClient
	categorizer *categorizer.Categorizer
	pipeline    *pipeline.Pipeline
	csvWriter   *common.CSVWriter
	batch       *batch.Processor
	opener      document.Opener

	storeOpener StoreOpener
	repoOnce    sync.Once
	repo        repository.TransactionStore
	repoErr     error
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg, storeOpener: OpenRepository}
	for _, opt := range opts {
		opt(c)
	}

	// Create logger first as it's needed by other components
	if c.logger == nil {
		c.logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}

	c.store = store.NewCategoryStore(cfg.Categories.File, c.logger)

	// Create AI client (if enabled)
	if c.aiClient == nil && cfg.AI.Enabled {
		gemini, err := categorizer.NewGeminiClient(context.Background(), categorizer.GeminiConfig{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
			Timeout:           cfg.AITimeout(),
		}, c.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		c.gemini = gemini
		c.aiClient = gemini
	}

	var catOpts []categorizer.Option
	if c.aiClient != nil {
		catOpts = append(catOpts, categorizer.WithAIClient(c.aiClient))
		c.logger.Info("AI categorization enabled")
	} else {
		c.logger.Debug("AI categorization disabled")
	}

	cat, err := categorizer.NewCategorizer(c.store, c.logger, catOpts...)
	if err != nil {
		c.closeAI()
		return nil, fmt.Errorf("failed to create categorizer: %w", err)
	}
	c.categorizer = cat

	pipeOpts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Extraction.Workers),
		pipeline.WithPageTimeout(cfg.PageTimeout()),
	}
	if c.opener != nil {
		pipeOpts = append(pipeOpts, pipeline.WithOpener(c.opener))
	}
	c.pipeline = pipeline.New(cat, c.logger, pipeOpts...)

	c.csvWriter = common.NewCSVWriter(common.CSVOptions{
		Delimiter:      cfg.Delimiter(),
		DateFormat:     cfg.CSV.DateFormat,
		IncludeHeaders: cfg.CSV.IncludeHeaders,
	}, c.logger)

	c.batch = batch.NewProcessor(c.pipeline, c.logger)

	c.logger.Debug("Container initialized successfully",
		logging.F("categories_source", c.store.Source()),
		logging.F(logging.FieldWorkers, cfg.Extraction.Workers),
		logging.F("ai_enabled", c.aiClient != nil))

	return c, nil
}

// OpenRepository is the default StoreOpener.
func OpenRepository(cfg *config.Config, logger logging.Logger) (repository.TransactionStore, error) {
	repo, err := repository.Open(cfg.Store.Driver, cfg.Store.DSN, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Store.AutoMigrate {
		if err := repo.Migrate(); err != nil {
			_ = repo.Close()
			return nil, err
		}
	}
	return repo, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetAIClient returns the container's AI client instance.
// Returns nil if AI is not enabled.
func (c *Container) GetAIClient() categorizer.AIClient {
	return c.aiClient
}

// GetPipeline returns the statement pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetCSVWriter returns the configured CSV writer.
func (c *Container) GetCSVWriter() *common.CSVWriter {
	return c.csvWriter
}

// GetBatchProcessor returns the directory processor.
func (c *Container) GetBatchProcessor() *batch.Processor {
	return c.batch
}

// GetRepository opens the transaction store on first call and returns it afterwards.
func (c *Container) GetRepository() (repository.TransactionStore, error) {
	c.repoOnce.Do(func() {
		c.repo, c.repoErr = c.storeOpener(c.config, c.logger)
		if c.repoErr != nil {
			c.repoErr = fmt.Errorf("failed to open transaction store: %w", c.repoErr)
		}
	})
	return c.repo, c.repoErr
}

// Close releases the transaction store and the AI client if they were created.
func (c *Container) Close() error {
	var firstErr error
	if c.repo != nil {
		if err := c.repo.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close transaction store: %w", err)
		}
	}
	c.closeAI()
	return firstErr
}

func (c *Container) closeAI() {
	if c.gemini == nil {
		return
	}
	if err := c.gemini.Close(); err != nil {
		c.logger.WithError(err).Warn("Failed to close AI client")
	}
}
