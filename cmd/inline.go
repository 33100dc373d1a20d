// Package cmd implements the command-line interface for reeler.
package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/filesystem"
	"github.com/reeler-cli/reeler/inline"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/network"
	"github.com/reeler-cli/reeler/query"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "The search query to run against the library")
	inlineCmd.Flags().StringP("item", "i", "", "Criteria for selecting a single item from the search results")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().BoolP("compat", "C", false, "Include the direct-play compatibility verdict for every item")

	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	_ = inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Execute the application in non-interactive, scriptable inline mode",
	Long: `Initialize the application for automated execution and data extraction using inline mode.

Item selectors:
  first - first item in the results
  last - last item in the results
  [number] - select item by index (starting from 0)
  anything else - select item by exact name

When the item selector is omitted, all matched items are emitted.`,
	Run: func(cmd *cobra.Command, args []string) {
		serverURL := viper.GetString(key.ServerURL)
		if serverURL == "" {
			handleErr(errors.New("server URL is not configured"))
		}

		var (
			writer io.Writer
			err    error
		)

		output := lo.Must(cmd.Flags().GetString("output"))
		if output != "" {
			writer, err = filesystem.API().Create(output)
			handleErr(err)
		} else {
			writer = os.Stdout
		}

		itemFlag := lo.Must(cmd.Flags().GetString("item"))
		itemPicker := mo.None[inline.ItemPicker]()
		if itemFlag != "" {
			fn, err := parseItemFlag(itemFlag)
			handleErr(err)
			itemPicker = mo.Some(fn)
		}

		options := &inline.Options{
			Out:                  writer,
			Library:              catalog.NewClient(serverURL).WithHTTPClient(network.Client),
			Json:                 lo.Must(cmd.Flags().GetBool("json")),
			Query:                lo.Must(cmd.Flags().GetString("query")),
			ItemPicker:           itemPicker,
			IncludeCompatibility: lo.Must(cmd.Flags().GetBool("compat")),
		}

		handleErr(inline.Run(options))
	},
}

// parseItemFlag maps the raw selector string onto a picker kind.
func parseItemFlag(value string) (inline.ItemPicker, error) {
	switch {
	case value == "first" || value == "last":
		return inline.ParseItemPicker(value, "")
	default:
		if _, err := strconv.ParseUint(value, 10, 16); err == nil {
			return inline.ParseItemPicker("index", value)
		}
		return inline.ParseItemPicker("exact", value)
	}
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

// inlineSchemaCmd generates JSON schemas for structured inline mode outputs.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured inline mode outputs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "item", "mediafile", "entry", "output", "compatibility":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		schema := reflector.Reflect(&inline.Output{})
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
