package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a built-in schema",
	Long:  "Validate a JSON document against one of the embedded schemas: " + strings.Join(schemas.Names(), ", ") + ".",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var (
	validateSchema    string
	validateInputFile string
	validateList      bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name")
	validateCmd.Flags().StringVarP(&validateInputFile, "in", "i", "", "Path to the JSON file")
	validateCmd.Flags().BoolVar(&validateList, "list", false, "List the schema names and exit")
	validateCmd.MarkFlagsRequiredTogether("schema", "in")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if validateList {
		for _, name := range schemas.Names() {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}
	if validateSchema == "" || validateInputFile == "" {
		return fmt.Errorf("--schema and --in are required")
	}

	err := schemas.ValidateFile(validateSchema, validateInputFile)
	var validationErr *schemas.ValidationError
	switch {
	case err == nil:
		_, _ = fmt.Fprintln(out, "Validation passed")
		return nil
	case errors.As(err, &validationErr):
		_, _ = fmt.Fprintln(out, "Validation failed:")
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s does not match schema %s", validateInputFile, validateSchema)
	default:
		return err
	}
}
