package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javajack/xlcull"
)

func newValidateCommand() *cobra.Command {
	var describe bool
	cmd := &cobra.Command{
		Use:   "validate [job.yaml]",
		Short: "Check a job file against its source workbook without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jf, err := xlcull.LoadJobFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if describe {
				fmt.Fprint(out, jf.Describe())
			}

			issues, err := xlcull.ValidateSource(jf)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			if xlcull.HasErrors(issues) {
				return errors.New("job file has errors")
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
	cmd.Flags().BoolVar(&describe, "describe", false, "Print the job plan before the issues")
	return cmd
}
