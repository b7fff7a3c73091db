package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/records-api/internal/types"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", s)
	}
	return id, nil
}

func (c *cli) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printProducts(cmd *cobra.Command, list []types.Product) error {
	if c.jsonOut {
		return c.printJSON(cmd, list)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tTITLE\tPRICE\tSTOCK")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\n", p.ID, p.Code, p.Title, p.Price, p.Stock)
	}
	return tw.Flush()
}

func (c *cli) printStudents(cmd *cobra.Command, list []types.Student) error {
	if c.jsonOut {
		return c.printJSON(cmd, list)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tCOURSES")
	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%s\n", s.ID, s.Name, s.Age, strings.Join(s.Courses, ","))
	}
	return tw.Flush()
}
