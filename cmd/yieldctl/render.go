package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jrsteele09/go-agri-dashboard/crops"
	"github.com/jrsteele09/go-agri-dashboard/dashboard"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/sessions"
)

func newTable(out io.Writer, theme sessions.Theme) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	if theme == sessions.ThemeDark {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	return tw
}

func renderView(out io.Writer, theme sessions.Theme, view dashboard.View) {
	tw := newTable(out, theme)
	tw.AppendHeader(table.Row{"ID", "Crop", "Variety", "Planted", "Country", "Region", "Status", "Yield"})
	for _, row := range view.Data {
		tw.AppendRow(table.Row{row.ID, row.CropName, row.Variety, row.PlantingDate, row.Country, row.Region, row.Status, formatYield(row.YieldAmount)})
	}

	state := view.State
	pages := max((view.Total+state.PageSize-1)/state.PageSize, 1)
	tw.Render()
	fmt.Fprintf(out, "page %d of %d, %d total\n", state.Page, pages, view.Total)
}

func renderDetail(out io.Writer, theme sessions.Theme, detail *crops.CropDetail) {
	tw := newTable(out, theme)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"ID", detail.ID},
		{"Crop", detail.CropName},
		{"Scientific name", detail.ScientificName},
		{"Variety", detail.Variety},
		{"Country", detail.Country},
		{"Region", detail.Region},
		{"Field", detail.FieldID},
		{"Plot", detail.PlotNumber},
		{"Planted", detail.PlantingDate},
		{"Expected harvest", detail.ExpectedHarvestDate},
		{"Actual harvest", detail.ActualHarvestDate},
		{"Status", detail.Status},
		{"Yield", formatYield(detail.YieldAmount)},
		{"Quality grade", detail.YieldQualityGrade},
		{"Soil type", detail.SoilType},
		{"Irrigation", detail.IrrigationType},
		{"Fertilizer", detail.FertilizerType},
		{"Pesticide applied", formatBool(detail.PesticideApplied)},
		{"Researcher", detail.ResearcherName},
		{"Notes", detail.Notes},
		{"Created", detail.CreatedAt.Format("2006-01-02 15:04")},
		{"Updated", detail.UpdatedAt.Format("2006-01-02 15:04")},
	})
	tw.Render()
}

func renderOptions(out io.Writer, theme sessions.Theme, options crops.FilterOptions) {
	tw := newTable(out, theme)
	tw.AppendHeader(table.Row{"Filter", "Values"})
	tw.AppendRow(table.Row{"country", strings.Join(options.Countries, ", ")})
	tw.AppendRow(table.Row{"crop_name", strings.Join(options.Crops, ", ")})
	tw.AppendRow(table.Row{"status", strings.Join(options.Statuses, ", ")})
	tw.Render()
}

func printValidation(out io.Writer, ve *apperrors.ValidationError) {
	fmt.Fprintln(out, ve.Message)
	names := make([]string, 0, len(ve.Fields))
	for name := range ve.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(ve.Fields[name], "; "))
	}
}

func formatYield(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return strconv.FormatFloat(*amount, 'f', 2, 64)
}

func formatBool(b *bool) string {
	if b == nil {
		return "-"
	}
	if *b {
		return "yes"
	}
	return "no"
}
