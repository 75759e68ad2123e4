package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/programme-lv/grader/conf"
	"github.com/programme-lv/grader/gradebook"
	"github.com/programme-lv/grader/gradehttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	env, err := conf.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var logLevel string
	var logFile string
	var policyPath string

	var rootCmd = &cobra.Command{
		Use:           "grader",
		Short:         "Grade a rubric gradebook file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return InitializeLogger(logLevel, logFile != "", logFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", env.LogLevel, "Log level [debug, info, warn, error]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&policyPath, "policy", "p", env.PolicyPath, "Grading policy TOML file")

	var student string
	var asJson bool

	var gradeCmd = &cobra.Command{
		Use:   "grade [FILE]",
		Short: "Grade every student of a gradebook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := gradebookPath(args)
			if err != nil {
				return err
			}
			opts, err := loadOptions(policyPath)
			if err != nil {
				return err
			}
			opts.StudentFilter = student
			return gradeFile(cmd.Context(), path, opts, asJson)
		},
	}
	gradeCmd.Flags().StringVarP(&student, "student", "s", "", "Grade only the student with this identifier")
	gradeCmd.Flags().BoolVar(&asJson, "json", false, "Print the report as JSON")

	var rubricCmd = &cobra.Command{
		Use:   "rubric FILE",
		Short: "Parse and print the rubric of a gradebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(policyPath)
			if err != nil {
				return err
			}
			rubric, cursor, err := gradebook.ParseRubricFile(args[0], opts)
			if err != nil {
				return err
			}
			printRubric(rubric, cursor)
			return nil
		},
	}

	var countCmd = &cobra.Command{
		Use:   "count FILE",
		Short: "Count the student lines of a gradebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(policyPath)
			if err != nil {
				return err
			}
			src, err := gradebook.OpenFile(args[0])
			if err != nil {
				return err
			}
			_, cursor, err := gradebook.ParseRubric(src, opts)
			if err != nil {
				return err
			}
			n, err := gradebook.CountStudents(src, cursor, opts)
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}

	var addr string
	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the grading HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(policyPath)
			if err != nil {
				return err
			}
			server := gradehttp.NewHttpServer(opts, env.CORSOrigins)
			log.Info().Str("address", addr).Msg("starting server")
			err = server.Start(addr)
			log.Error().Err(err).Msg("server stopped")
			return err
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", env.HTTPAddr, "Listen address")

	rootCmd.AddCommand(gradeCmd, rubricCmd, countCmd, serveCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func gradebookPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return promptForPath()
}

func loadOptions(policyPath string) (gradebook.Options, error) {
	if policyPath == "" {
		return gradebook.DefaultOptions(), nil
	}
	return conf.ReadPolicy(policyPath)
}

func gradeFile(ctx context.Context, path string, opts gradebook.Options, asJson bool) error {
	report, err := gradebook.Run(ctx, path, opts)
	if err != nil {
		if errors.Is(err, gradebook.ErrStudentNotFound) {
			return fmt.Errorf("student %q not found in %s", opts.StudentFilter, path)
		}
		return err
	}

	if asJson {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(renderResults(report))
	fmt.Print(renderSummary(report.Summary, report.Results.Bands))
	writeRecordErrors(os.Stderr, report.Results.Errored)
	return nil
}

func printRubric(r gradebook.Rubric, cursor gradebook.Cursor) {
	titles := r.Titles()
	categories := r.Categories()
	maxMarks := r.MaxMarks()
	weights := r.Weights()
	fmt.Printf("%-10s %-12s %8s %8s\n", "TITLE", "CATEGORY", "MAXMARK", "WEIGHT")
	for j := 0; j < r.Len(); j++ {
		fmt.Printf("%-10s %-12s %8s %8s\n", titles[j], categories[j],
			formatGrade(maxMarks[j]), formatGrade(weights[j]))
	}
	fmt.Printf("students start on line %d\n", cursor.Line+1)
}
