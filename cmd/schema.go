package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/wavefront/schema"
	"github.com/achilleasa/wavefront/soa"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Load the schema given as an argument or the bundled default schema.
func loadSchema(ctx *cli.Context) (*schema.Document, error) {
	pathToSchema := ctx.String("schema")
	if pathToSchema == "" && ctx.NArg() > 0 {
		pathToSchema = ctx.Args().First()
	}
	if pathToSchema == "" {
		return schema.Default()
	}
	return schema.Load(pathToSchema)
}

// Display the work items declared by a schema and their storage columns.
func ShowSchema(ctx *cli.Context) error {
	setupLogging(ctx)

	doc, err := loadSchema(ctx)
	if err != nil {
		return err
	}

	layouts, err := soa.Generate(doc, soa.DefaultTypeMap())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Work item", "Active", "Fields", "Columns", "Declared at"})
	activeIndex := 0
	for _, wt := range doc.WorkItems {
		columns := "-"
		if wt.Active {
			columns = fmt.Sprintf("%d", len(layouts[activeIndex].Columns()))
			activeIndex++
		}
		table.Append([]string{
			wt.Name,
			fmt.Sprintf("%t", wt.Active),
			fmt.Sprintf("%d", len(wt.Fields)),
			columns,
			fmt.Sprintf("%s:%d", wt.File, wt.Line),
		})
	}
	table.SetFooter([]string{"", "", "", "FLAT TYPES", fmt.Sprintf("%d", len(doc.Flat))})
	table.Render()
	logger.Noticef("schema %s\n%s", doc.Source, buf.String())

	if !ctx.Bool("columns") {
		return nil
	}

	for _, l := range layouts {
		buf.Reset()
		table = tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"Column", "Scalar"})
		for _, col := range l.Columns() {
			table.Append([]string{col.Path, col.Scalar})
		}
		table.Render()
		logger.Noticef("%s columns\n%s", l.Name, buf.String())
	}

	return nil
}
