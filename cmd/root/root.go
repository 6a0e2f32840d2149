// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"edocta/edocta-csv/internal/config"
	"edocta/edocta-csv/internal/container"
	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/profile"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	Bank       string
	ConfigFile string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}

	appContainer     *container.Container
	containerOptions []container.Option

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "edocta-csv",
		Short: "A CLI tool to convert Mexican bank statement PDFs to CSV and categorize transactions.",
		Long: `edocta-csv extracts the transaction table of a bank statement PDF (estado de cuenta),
normalizes dates and amounts, categorizes every movement and writes the result as CSV
or stores it in a database.

Supported statements are selected explicitly with --bank; run "edocta-csv profiles" to list them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initContainer,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement PDF (or directory for batch and import)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file (or directory for batch)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Bank, "bank", "b", "", "Statement profile: "+strings.Join(profile.IDs(), ", "))
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches config.yaml in $HOME/.edocta-csv, .edocta-csv and .)")
}

func initContainer(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return &parsererror.ValidationError{FilePath: SharedFlags.ConfigFile, Reason: err.Error()}
	}

	Log = config.ConfigureLoggingFromConfig(cfg)
	Log.SetOutput(cmd.ErrOrStderr())

	opts := append([]container.Option{container.WithLogger(logging.NewLogrusAdapterFromLogger(Log))}, containerOptions...)
	c, err := container.NewContainer(cfg, opts...)
	if err != nil {
		return err
	}
	appContainer = c
	return nil
}

// SetContainerOptions adds options applied whenever the container is built.
func SetContainerOptions(opts ...container.Option) {
	containerOptions = opts
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// GetLogger returns the container logger, or an adapter over Log before the container exists.
func GetLogger() logging.Logger {
	if appContainer != nil {
		return appContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}

// ResolveProfile returns the profile named by --bank.
func ResolveProfile() (profile.Profile, error) {
	if SharedFlags.Bank == "" {
		return profile.Profile{}, &parsererror.ValidationError{
			Reason: fmt.Sprintf("--bank is required, one of: %s", strings.Join(profile.IDs(), ", ")),
		}
	}
	return profile.Lookup(SharedFlags.Bank)
}

// Shutdown releases the container. It is safe to call when no command ran.
func Shutdown() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// Reset clears flag values and the container between command runs in tests.
func Reset() {
	_ = Shutdown()
	SharedFlags = CommonFlags{}
	containerOptions = nil
}
