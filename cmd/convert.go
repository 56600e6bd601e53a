package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/config"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/converter"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/logger"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [sql-file]",
	Short: "Convert INSERT statements in a SQL file to a Liquibase changelog",
	Long: `Convert the INSERT statements found in a SQL file into Liquibase XML
changesets, one changeset per statement, in source order.

Malformed statements are skipped with a warning so the rest of the file
still converts; use --strict to abort on the first bad statement instead.
With no argument the tool reads inserts.sql from the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Flags for convert command
	convertCmd.Flags().StringP("output", "o", "liquibase_inserts.xml", "output changelog path")
	convertCmd.Flags().StringP("author", "a", "", "changeset author attribute")
	convertCmd.Flags().String("id-prefix", "", "prefix for generated changeset IDs")
	convertCmd.Flags().String("settings", "", "path to a conversion settings file (YAML or JSON)")
	convertCmd.Flags().String("report", "text", "report format (text, json, yaml)")
	convertCmd.Flags().Bool("strict", false, "abort on the first malformed statement")
	convertCmd.Flags().Bool("fail-on-error", false, "exit with non-zero code if statements were skipped")
	convertCmd.Flags().Bool("fail-on-warning", false, "exit with non-zero code if warnings were issued")

	// Bind flags to viper
	_ = viper.BindPFlag("output", convertCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("author", convertCmd.Flags().Lookup("author"))
	_ = viper.BindPFlag("id-prefix", convertCmd.Flags().Lookup("id-prefix"))
	_ = viper.BindPFlag("settings", convertCmd.Flags().Lookup("settings"))
	_ = viper.BindPFlag("report", convertCmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("strict", convertCmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("fail-on-error", convertCmd.Flags().Lookup("fail-on-error"))
	_ = viper.BindPFlag("fail-on-warning", convertCmd.Flags().Lookup("fail-on-warning"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	// Initialize logger
	logLevel := slog.LevelWarn
	if viper.GetBool("debug") {
		logLevel = slog.LevelDebug
	} else if viper.GetBool("verbose") {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(logger.NewWithLevel(logLevel).GetSlogLogger())

	slog.Debug("Starting convert command", "args", args)

	input := "inserts.sql"
	if len(args) == 1 {
		input = args[0]
	}
	output := viper.GetString("output")

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	conv := converter.New(opts...)
	result, err := conv.ConvertFile(context.Background(), input, output)
	if err != nil {
		return err
	}

	// Output report
	if err := outputReport(result, viper.GetString("report"), output); err != nil {
		return err
	}

	// Check exit codes
	if result.HasErrors() && viper.GetBool("fail-on-error") {
		os.Exit(1)
	}
	if result.HasWarnings() && viper.GetBool("fail-on-warning") {
		os.Exit(1)
	}

	return nil
}

// buildOptions assembles converter options from the settings file (if
// any) and the flags, with flags taking precedence.
func buildOptions() ([]converter.Option, error) {
	var opts []converter.Option

	if settingsPath := viper.GetString("settings"); settingsPath != "" {
		cfg, err := config.LoadFromFile(settingsPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load settings file: %s", settingsPath)
		}
		opts = append(opts, converter.WithConfig(cfg))
	}

	if author := viper.GetString("author"); author != "" {
		opts = append(opts, converter.WithAuthor(author))
	}
	if prefix := viper.GetString("id-prefix"); prefix != "" {
		opts = append(opts, converter.WithIDPrefix(prefix))
	}
	if viper.GetBool("strict") {
		opts = append(opts, converter.WithStrict(true))
	}

	return opts, nil
}

func outputReport(result *converter.Result, format, outputPath string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(result)
	case "text":
		outputText(result, outputPath)
		return nil
	default:
		return errors.Errorf("unsupported report format: %s", format)
	}
}

func outputText(result *converter.Result, outputPath string) {
	for _, issue := range result.Issues {
		prefix := "WARNING"
		if issue.Status == types.Issue_ERROR {
			prefix = "ERROR"
		}

		position := ""
		if issue.StartPosition != nil {
			position = fmt.Sprintf(" at %s", issue.StartPosition.String())
		}

		fmt.Printf("[%s] %s%s\n", prefix, issue.Title, position)
		if issue.Content != "" {
			fmt.Printf("  %s\n", issue.Content)
		}
		fmt.Println()
	}

	fmt.Println(result.String())
	fmt.Printf("Conversion completed! Check '%s'\n", outputPath)
}
