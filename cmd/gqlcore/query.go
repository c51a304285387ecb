package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/executor"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/hanpama/gqlcore/internal/starwars"
	"github.com/hanpama/gqlcore/internal/validator"
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// errFailed is returned after the errors themselves were already printed.
var errFailed = errors.New("operation failed")

// readDocument takes the document from the first argument, from file, or
// from stdin when neither is given or file is "-".
func readDocument(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case len(args) > 0:
		return args[0], nil
	case file != "" && file != "-":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(b), nil
}

func newQueryCmd() *cobra.Command {
	var (
		file          string
		variables     string
		operationName string
		pretty        bool
		concurrency   int
	)
	cmd := &cobra.Command{
		Use:   "query [document]",
		Short: "Execute a document against the example schema and print the JSON result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readDocument(cmd, args, file)
			if err != nil {
				return err
			}
			var vars map[string]any
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &vars); err != nil {
					return fmt.Errorf("invalid --variables: %w", err)
				}
			}

			res := execute(cmd, starwars.NewSchema(), source, vars, operationName, concurrency)
			out, err := json.Marshal(res)
			if err != nil {
				return err
			}
			if pretty {
				var buf bytes.Buffer
				if err := json.Indent(&buf, out, "", "  "); err != nil {
					return err
				}
				out = buf.Bytes()
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if !res.HasData() {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the document from a file, - for stdin")
	cmd.Flags().StringVar(&variables, "variables", "", "Variable values as a JSON object")
	cmd.Flags().StringVar(&operationName, "operation", "", "Operation to run when the document has several")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Sibling fields resolved at once")
	return cmd
}

// execute parses, validates and runs source. Parse and validation failures
// produce a result without data.
func execute(cmd *cobra.Command, s *schema.Schema, source string, vars map[string]any, operationName string, concurrency int) *executor.Result {
	doc, err := language.Parse(source)
	if err != nil {
		var ge *gqlerror.Error
		if !errors.As(err, &ge) {
			ge = errcode.Errorf(errcode.ParseFailed, "%s", err.Error())
		}
		return &executor.Result{Errors: gqlerror.List{ge}}
	}
	v, err := validator.New(s)
	if err != nil {
		return &executor.Result{Errors: gqlerror.List{gqlerror.Errorf("%s", err.Error())}}
	}
	if errs := v.Validate(source); len(errs) > 0 {
		return &executor.Result{Errors: errs}
	}
	return executor.Execute(cmd.Context(), executor.Params{
		Schema:         s,
		Document:       doc,
		VariableValues: vars,
		OperationName:  operationName,
	}, executor.WithConcurrency(concurrency))
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the example schema as SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), schema.Render(starwars.NewSchema()))
			return err
		},
	}
}

func newValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate [document]",
		Short: "Validate a document against the example schema",
		Long:  "Validate a document against the example schema. Exits non-zero when the document has errors.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readDocument(cmd, args, file)
			if err != nil {
				return err
			}
			errs := validate(starwars.NewSchema(), source)
			out := cmd.OutOrStdout()
			if len(errs) == 0 {
				fmt.Fprintln(out, "valid")
				return nil
			}
			for _, e := range errs {
				if len(e.Locations) > 0 {
					fmt.Fprintf(out, "%d:%d: %s\n", e.Locations[0].Line, e.Locations[0].Column, e.Message)
				} else {
					fmt.Fprintln(out, e.Message)
				}
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the document from a file, - for stdin")
	return cmd
}

func validate(s *schema.Schema, source string) gqlerror.List {
	if _, err := language.Parse(source); err != nil {
		var ge *gqlerror.Error
		if errors.As(err, &ge) {
			return gqlerror.List{ge}
		}
		return gqlerror.List{gqlerror.Errorf("%s", err.Error())}
	}
	v, err := validator.New(s)
	if err != nil {
		return gqlerror.List{gqlerror.Errorf("%s", err.Error())}
	}
	return v.Validate(source)
}
