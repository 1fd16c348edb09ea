package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/javajack/xlcull"
	"github.com/javajack/xlcull/internal/config"
)

type cullFlags struct {
	sheet       string
	headerRow   int
	firstRow    int
	protect     []int
	where       []string
	op          string
	formulas    []string
	formats     []string
	output      string
	dir         string
	destination string
	rename      string
	overwrite   bool
	recalc      bool
}

func newCullCommand(cfg *config.Config) *cobra.Command {
	var fl cullFlags
	cmd := &cobra.Command{
		Use:   "cull [input.xlsx]",
		Short: "Copy a workbook and cull one sheet",
		Long: `Copy a workbook and keep only the rows of one sheet that satisfy the
--where conditions. Each condition is "Header:expression", where the
expression sees the cell value as v, e.g. --where 'Price Per Item:v >= 10'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fl.dir == "" {
				fl.dir = cfg.OutputDir
			}
			job, err := fl.job()
			if err != nil {
				return err
			}
			res, err := xlcull.CopyCull(args[0], job)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fl.sheet, "sheet", "s", "", "Sheet to cull (required)")
	f.IntVar(&fl.headerRow, "header-row", 1, "Row holding column headers")
	f.IntVar(&fl.firstRow, "first-row", 0, "First row that may be deleted (default: after header)")
	f.IntSliceVar(&fl.protect, "protect", nil, "Rows that are never deleted")
	f.StringArrayVar(&fl.where, "where", nil, `Condition "Header:expression" (repeatable)`)
	f.StringVar(&fl.op, "op", "AND", "How conditions combine: AND, OR, XOR")
	f.StringArrayVar(&fl.formulas, "formula", nil, `Formula "Column:template", e.g. "G:=C{row}*E{row}" (repeatable)`)
	f.StringArrayVar(&fl.formats, "format", nil, `Number format "Column:format" for a formula column, e.g. "G:id:44" or "G:0.00" (repeatable)`)
	f.StringVar(&fl.output, "out", "", "File name of the copy")
	f.StringVar(&fl.dir, "dir", "", "Directory of the copy (default: next to the input)")
	f.StringVar(&fl.destination, "dest", "", "Full path of the copy (overrides --out and --dir)")
	f.StringVar(&fl.rename, "rename", "", "New name for the culled sheet")
	f.BoolVar(&fl.overwrite, "overwrite", false, "Allow the copy to replace the input workbook")
	f.BoolVar(&fl.recalc, "recalc", false, "Ask Excel to recalculate formulas on open")
	_ = cmd.MarkFlagRequired("sheet")

	return cmd
}

// job converts the flags to an xlcull.Job.
func (fl *cullFlags) job() (xlcull.Job, error) {
	op, err := xlcull.ParseBoolOperator(fl.op)
	if err != nil {
		return xlcull.Job{}, err
	}

	conds := make([]xlcull.Condition, 0, len(fl.where))
	for _, w := range fl.where {
		column, expression, err := splitPair(w, "--where")
		if err != nil {
			return xlcull.Job{}, err
		}
		cond, err := xlcull.WhereExpr(column, expression, nil)
		if err != nil {
			return xlcull.Job{}, err
		}
		conds = append(conds, cond)
	}

	formats := make(map[string]string, len(fl.formats))
	for _, s := range fl.formats {
		column, format, err := splitPair(s, "--format")
		if err != nil {
			return xlcull.Job{}, err
		}
		formats[column] = format
	}
	specs := make([]xlcull.FormulaSpec, 0, len(fl.formulas))
	for _, s := range fl.formulas {
		column, tmpl, err := splitPair(s, "--formula")
		if err != nil {
			return xlcull.Job{}, err
		}
		specs = append(specs, xlcull.FormulaSpec{
			Column:       column,
			Generate:     xlcull.FormulaTemplate(tmpl),
			NumberFormat: formats[column],
		})
	}

	opts := []xlcull.Option{
		xlcull.WithLogger(log.Logger),
		xlcull.WithOverwriteOriginal(fl.overwrite),
		xlcull.WithRecalculateOnOpen(fl.recalc),
	}
	if fl.dir != "" {
		opts = append(opts, xlcull.WithCopyDir(fl.dir))
	}
	if fl.output != "" {
		opts = append(opts, xlcull.WithOutputName(fl.output))
	}
	if fl.destination != "" {
		opts = append(opts, xlcull.WithDestination(fl.destination))
	}

	return xlcull.Job{
		Sheet:              fl.sheet,
		HeaderRow:          fl.headerRow,
		FirstModifiableRow: fl.firstRow,
		ProtectedRows:      fl.protect,
		Rename:             fl.rename,
		Conditions:         conds,
		Operator:           op,
		Formulas:           specs,
		Options:            opts,
	}, nil
}

// splitPair splits "key:value" at the first colon.
func splitPair(s, flag string) (string, string, error) {
	key, value, ok := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return "", "", fmt.Errorf("%s %q: expected KEY:VALUE", flag, s)
	}
	return key, value, nil
}
