package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carewell-hms/permadmin/filter"
	"github.com/carewell-hms/permadmin/permission"
	"github.com/spf13/cobra"
)

func newCatalogCmd(get func() *app) *cobra.Command {
	var search, module string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the permission catalog grouped by module",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			c, err := a.client()
			if err != nil {
				return err
			}
			catalog, err := c.Permissions.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			records := make([]map[string]string, 0, len(catalog))
			for _, tok := range catalog {
				rec := map[string]string{"permission": tok, "module": "", "action": ""}
				if p, err := permission.Parse(tok); err == nil {
					rec["module"], rec["action"] = p.Module, p.Action
				}
				records = append(records, rec)
			}
			matched := filter.Apply(records, filter.Query{
				Term:         search,
				Filters:      map[string]string{"module": strings.ToLower(module)},
				SearchFields: []string{"permission"},
			}, filter.MapAccessor)

			kept := make([]string, len(matched))
			for i, rec := range matched {
				kept[i] = rec["permission"]
			}
			grouped := permission.GroupByModule(kept)
			for _, m := range permission.Modules(kept) {
				fmt.Fprintf(a.out, "%s\n", m)
				for _, action := range grouped[m] {
					fmt.Fprintf(a.out, "  %s.%s\n", m, action)
				}
			}
			if odd := grouped[""]; len(odd) > 0 {
				fmt.Fprintln(a.out, "(unrecognised)")
				for _, tok := range odd {
					fmt.Fprintf(a.out, "  %s\n", tok)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only permissions containing this text")
	cmd.Flags().StringVar(&module, "module", "", "Only permissions of this module")
	return cmd
}

func encodeJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
