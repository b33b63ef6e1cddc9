package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/config"
	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/report"
	"github.com/icodeforyou/elpris-go/source"
	"github.com/icodeforyou/elpris-go/types"
)

var Version = "?.?.?"

// chargingFromConfig is the value of a bare --charging flag.
const chargingFromConfig = "config"

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidUnit = errors.New("invalid unit")
)

type rootOptions struct {
	configPath string
	zone       string
	date       string
	sorted     bool
	desc       bool
	charging   string
	chart      bool
	unit       string
}

// NewRootCommand returns the elpris command with the serve subcommand.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "elpris",
		Short: "Elpriser per timme och billigaste laddningsfönster",
		Long: `Visar timpriser för ett elområde och datum, med lägsta, högsta och
medelpris, och hittar de billigaste sammanhängande timmarna för laddning.`,
		Example: `  elpris --zone SE3 --date 2025-09-04
  elpris --zone SE4 --sorted --desc
  elpris --charging
  elpris --charging=3h,6h --chart`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return runAnalysis(cmd, o)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "sökväg till konfigurationsfil")

	f = cmd.Flags()
	f.StringVar(&o.zone, "zone", "", "elområde SE1, SE2, SE3 eller SE4 (standard från konfiguration, SE3)")
	f.StringVar(&o.date, "date", "", "datum YYYY-MM-DD (standard idag)")
	f.BoolVar(&o.sorted, "sorted", false, "sortera priserna från lägst till högst")
	f.BoolVar(&o.desc, "desc", false, "med --sorted, sortera från högst till lägst")
	f.StringVar(&o.charging, "charging", "", "visa billigaste laddningsfönster, t.ex. 2h,4h,8h (utan värde används charging.windows)")
	f.Lookup("charging").NoOptDefVal = chargingFromConfig
	f.BoolVar(&o.chart, "chart", false, "rita priserna som diagram")
	f.StringVar(&o.unit, "unit", "", "prisenhet sek eller ore (standard från konfiguration, ore)")
	cmd.SetGlobalNormalizationFunc(flagAliases)

	cmd.AddCommand(newServeCommand(o))

	return cmd
}

// flagAliases keeps older spellings of flags working.
func flagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "sort":
		name = "sorted"
	}
	return pflag.NormalizedName(name)
}

// Execute runs the CLI and exits with 1 on failure.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Fel: %s\n", userMessage(err))
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, o *rootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cnfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	zone := cnfg.EnergyPrice.GetArea()
	if o.zone != "" {
		if zone, err = types.ParseZone(o.zone); err != nil {
			return err
		}
	}

	date := hours.Today()
	if o.date != "" {
		if date, err = hours.ParseDate(o.date); err != nil {
			return fmt.Errorf("%w: %w", errInvalidDate, err)
		}
	}

	unit, err := report.ParseUnit(cnfg.Display.GetUnit())
	if o.unit != "" {
		unit, err = report.ParseUnit(o.unit)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidUnit, err)
	}

	var windows []int
	switch o.charging {
	case "":
	case chargingFromConfig:
		windows = cnfg.Charging.GetWindows()
	default:
		if windows, err = types.ParseWindowLengths(o.charging); err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cnfg, cmd.ErrOrStderr(), slog.LevelWarn, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 2*cnfg.EnergyPrice.GetTimeout()+5*time.Second)
	defer cancel()

	s, err := a.source.Series(fetchCtx, zone, date, len(windows) > 0)
	if err != nil {
		return err
	}

	res, err := analysis.Analyze(s, windows...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", zone, hours.FormatDate(date), err)
	}

	return report.New(report.Options{
		Unit:        unit,
		Language:    cnfg.Display.GetLanguage(),
		Sorted:      o.sorted,
		Descending:  o.desc,
		Chart:       o.chart,
		ChartHeight: cnfg.Display.GetChartHeight(),
		PowerKW:     cnfg.Charging.PowerKW,
		EnergyTax:   cnfg.EnergyPrice.Tax,
		GridBenefit: cnfg.EnergyPrice.GridBenefit,
	}).Write(cmd.OutOrStdout(), zone, s, res)
}

// userMessage turns an error into a stable message per failure kind.
func userMessage(err error) string {
	var fetchErr *source.FetchError
	switch {
	case errors.Is(err, types.ErrInvalidZone):
		return "ogiltigt elområde, välj SE1, SE2, SE3 eller SE4"
	case errors.Is(err, errInvalidDate):
		return "ogiltigt datum, använd formatet YYYY-MM-DD"
	case errors.Is(err, errInvalidUnit):
		return "ogiltig prisenhet, välj sek eller ore"
	case errors.Is(err, types.ErrInvalidWindowList):
		return "ogiltiga fönsterlängder, ange t.ex. 2h,4h,8h"
	case errors.Is(err, analysis.ErrEmptySeries):
		return "inga priser publicerade för valt elområde och datum"
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("kunde inte hämta elpriser för %s %s", fetchErr.Zone, hours.FormatDate(fetchErr.Date))
	}
	return err.Error()
}
