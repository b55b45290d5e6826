package main

import (
	"fmt"
	"os"

	"microsense/internal/buildinfo"
	"microsense/plot"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagPort    string
	flagBaud    int
	flagHistory int
	flagList    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sonarplot",
		Short: "sonarplot - live terminal plot of the dual sonar telemetry",
		Long: `sonarplot reads "<ms> <d0> <d1>" lines from the sonar firmware over a
serial port (or standard input with --port -) and plots both distances.

Samples where one distance is more than twice the other, or whose
timestamp does not advance, are dropped and counted.`,
		Version:      buildinfo.Short(),
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&flagPort, "port", "p", plot.Stdin, "Serial port, or - for standard input")
	rootCmd.Flags().IntVarP(&flagBaud, "baud", "b", 115200, "Serial baud rate")
	rootCmd.Flags().IntVar(&flagHistory, "history", 512, "Samples kept per trace")
	rootCmd.Flags().BoolVar(&flagList, "list", false, "List serial ports and exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagList {
		ports, err := plot.Ports()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}
	if flagHistory < 1 {
		return fmt.Errorf("--history must be at least 1, got %d", flagHistory)
	}

	src, err := plot.Open(flagPort, flagBaud)
	if err != nil {
		return err
	}
	defer src.Close()

	model := plot.NewModel(flagPort, buildinfo.Short(), flagHistory)
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithFPS(30)}
	if flagPort == plot.Stdin {
		// Keys cannot come from the telemetry stream.
		opts = append(opts, tea.WithInput(nil))
	}
	p := tea.NewProgram(model, opts...)

	go plot.Stream(src, p)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(plot.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
