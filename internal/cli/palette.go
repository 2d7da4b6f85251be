package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	sio "github.com/matzehuels/storeshot/pkg/io"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// paletteCommand extracts a color scheme from a screenshot.
func (c *CLI) paletteCommand() *cobra.Command {
	var (
		k      int
		method string
	)

	cmd := &cobra.Command{
		Use:   "palette IMAGE",
		Short: "Extract a color scheme from a screenshot",
		Long: `Extract a color scheme from a screenshot.

Prints up to -k visually distinct colors, most prominent first, in the hex form
used by a config's color_scheme. Setting color_scheme to ["auto"] runs the same
extraction on every entry's screenshot during render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			colors, err := extractPalette(args[0], k, palette.ParseMethod(method))
			if err != nil {
				return err
			}
			printSuccess("Extracted %s colors (%s)", StyleNumber.Render(fmt.Sprint(len(colors))), palette.ParseMethod(method))
			for _, col := range colors {
				fmt.Fprintln(stdout, "  " + swatch(col))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "count", "k", 3, "number of colors")
	cmd.Flags().StringVar(&method, "method", "dominant", "extraction method: dominant, kmeans")
	completeFlagValues(cmd, renderFlagValues())

	return cmd
}

func extractPalette(path string, k int, method palette.Method) ([]palette.Color, error) {
	if k <= 0 {
		return nil, fmt.Errorf("-k must be positive, got %d", k)
	}
	img, err := sio.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	colors := palette.Extract(img, k, method)
	if len(colors) == 0 {
		return nil, fmt.Errorf("no colors found in %s", path)
	}
	return colors, nil
}
