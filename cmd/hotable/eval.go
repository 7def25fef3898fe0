package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hotable/internal/corpus"
	"hotable/internal/domain"
	"hotable/internal/nlu"
)

type evalReport struct {
	Total  int
	Passed int
	Failed []evalFailure
}

type evalFailure struct {
	Case domain.EvalCase
	Got  nlu.Classification
}

func (r evalReport) Rate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

func runEval(classifier nlu.Classifier, cases []domain.EvalCase) evalReport {
	report := evalReport{Total: len(cases)}
	for _, tc := range cases {
		got := classifier.Classify(tc.Message)
		if got.Tag == tc.Expect {
			report.Passed++
			continue
		}
		report.Failed = append(report.Failed, evalFailure{Case: tc, Got: got})
	}
	return report
}

func writeEvalReport(w io.Writer, strategy string, r evalReport) {
	for _, f := range r.Failed {
		fmt.Fprintf(w, "FAIL %q: got %s (%.3f %s), want %s\n", f.Case.Message, f.Got.Tag, f.Got.Score, f.Got.Origin, f.Case.Expect)
	}
	fmt.Fprintf(w, "strategy=%s passed=%d/%d rate=%.1f%%\n", strategy, r.Passed, r.Total, r.Rate()*100)
}

func newEvalCmd(c *cli) *cobra.Command {
	var (
		file    string
		minRate float64
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the labelled evaluation set against the local classifier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stack, err := c.loadStack()
			if err != nil {
				return err
			}
			cases, err := corpus.LoadEvalCases(file)
			if err != nil {
				return err
			}
			report := runEval(stack.Classifier, cases)
			writeEvalReport(cmd.OutOrStdout(), stack.Strategy, report)
			if report.Rate() < minRate {
				return fmt.Errorf("pass rate %.3f below --min-rate %.3f", report.Rate(), minRate)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "evaluation YAML (default: bundled set)")
	cmd.Flags().Float64Var(&minRate, "min-rate", 0, "fail when the pass rate is below this fraction")
	return cmd
}
