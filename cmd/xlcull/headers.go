package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/javajack/xlcull"
)

func newHeadersCommand() *cobra.Command {
	var (
		sheet     string
		headerRow int
	)
	cmd := &cobra.Command{
		Use:   "headers [input.xlsx]",
		Short: "List the column headers of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := excelize.OpenFile(args[0])
			if err != nil {
				return fmt.Errorf("open workbook %q: %w", args[0], err)
			}
			defer f.Close()

			if sheet == "" {
				sheet = f.GetSheetName(f.GetActiveSheetIndex())
			}
			g, err := xlcull.NewSheetGrid(f, sheet)
			if err != nil {
				return err
			}
			cells, err := g.HeaderCells(headerRow)
			if err != nil {
				return err
			}
			for _, c := range cells {
				if c.IsEmpty() {
					continue
				}
				col, _ := excelize.ColumnNumberToName(c.Col)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", col, c.Raw)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "Sheet to inspect (default: active sheet)")
	cmd.Flags().IntVar(&headerRow, "header-row", 1, "Row holding column headers")
	return cmd
}
