// wlinfo connects to a display server and prints what it advertises.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wlproto/wlclient"
)

var socketName string

func main() {
	rootCmd := &cobra.Command{
		Use:           "wlinfo",
		Short:         "Inspect a display server's advertised globals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&socketName, "socket", "s", "",
		`server socket; "@name" selects the abstract namespace (default @wayland)`)

	rootCmd.AddCommand(
		globalsCmd(),
		visualsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wlinfo: %v\n", err)
		os.Exit(1)
	}
}

func globalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "globals",
		Short: "List server-advertised globals in advertisement order",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := wlclient.Connect(socketName)
			if err != nil {
				return err
			}
			defer d.Close()

			color.New(color.Bold).Printf("%6s  %-24s %s\n", "id", "interface", "version")
			for _, g := range d.Globals() {
				fmt.Printf("%6d  %-24s %d\n", g.ID, g.Interface, g.Version)
			}
			return nil
		},
	}
}

func visualsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "visuals",
		Short: "Show which visual occupies each positional slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := wlclient.Connect(socketName)
			if err != nil {
				return err
			}
			defer d.Close()

			kinds := []wlclient.VisualKind{
				wlclient.VisualARGB,
				wlclient.VisualPremultipliedARGB,
				wlclient.VisualRGB,
			}
			for _, kind := range kinds {
				v, err := d.Visual(kind)
				switch {
				case err == nil:
					color.Green("✓ %-20s id %d", kind, v.ID())
				case errors.Is(err, wlclient.ErrInsufficientVisuals):
					color.Red("✗ %-20s not advertised", kind)
				default:
					return err
				}
			}
			return nil
		},
	}
}
