package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hwsense/hwsense/internal/access"
	"github.com/hwsense/hwsense/internal/backend"
	"github.com/hwsense/hwsense/internal/catalog"
	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/config"
	"github.com/hwsense/hwsense/internal/ui"
)

// DefaultConfigPath is consulted when --config is not given. A missing
// default file is not an error; an unreadable explicit one is.
const DefaultConfigPath = "/etc/hwsense.yaml"

// Command flags
var (
	configPath    string
	sysfsRoot     string
	watchInterval int
	showAll       bool
)

func init() {
	// Common flags for all sensor commands (persistent on root)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default "+DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&sysfsRoot, "sysfs", backend.DefaultSysfsRoot, "Sysfs hwmon class directory")

	// Add subcommands directly to root
	rootCmd.AddCommand(chipsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(watchCmd)
}

// openAccessor builds the sysfs backend and the accessor on top of it.
func openAccessor() (*access.Accessor, *backend.Sysfs, error) {
	sysfs, err := backend.OpenSysfs(sysfsRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", sysfsRoot, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	return access.New(sysfs.Catalog(), cfg, sysfs, sysfs), sysfs, nil
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err != nil {
			// No configuration is fine, everything stays raw
			return &config.Config{}, nil
		}
		path = DefaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

// parseChipArg parses an optional chip pattern argument, defaulting to
// the match-everything pattern.
func parseChipArg(args []string) (chip.Name, error) {
	if len(args) == 0 {
		return chip.Name{Prefix: chip.PrefixAny, Bus: chip.BusAny, Addr: chip.AddrAny}, nil
	}
	name, err := chip.Parse(args[0])
	if err != nil {
		return chip.Name{}, fmt.Errorf("invalid chip pattern %q: %w", args[0], err)
	}
	return name, nil
}

// chipsCmd lists detected chips
var chipsCmd = &cobra.Command{
	Use:   "chips [pattern]",
	Short: "List detected sensor chips",
	Long: `List the sensor chips detected through sysfs.

Each chip is shown with its full name (prefix, bus and address) and
the name of the adapter it sits on. An optional chip pattern restricts
the listing.`,
	Example: `  # List every detected chip
  hwsense chips

  # Only chips on the first I2C bus
  hwsense chips "*-i2c-0-*"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChips,
}

func runChips(cmd *cobra.Command, args []string) error {
	pattern, err := parseChipArg(args)
	if err != nil {
		return err
	}

	sysfs, err := backend.OpenSysfs(sysfsRoot)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", sysfsRoot, err)
	}

	count := 0
	for _, name := range sysfs.Chips() {
		if !chip.Match(pattern, name) {
			continue
		}
		count++
		fmt.Println(name)
		fmt.Printf("Adapter: %s\n\n", sysfs.AdapterName(name.Bus))
	}

	if count == 0 {
		fmt.Println("No sensor chips found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check that hwmon kernel drivers are loaded for your hardware")
		fmt.Println("  - Verify " + sysfsRoot + " exists and is populated")
		fmt.Println("  - Try a broader pattern, or none at all")
	}
	return nil
}

// showCmd displays all readings per chip
var showCmd = &cobra.Command{
	Use:   "show [pattern]",
	Short: "Show sensor readings",
	Long: `Display the readings of all detected chips, grouped by chip.

Labels, value conversions and ignore directives from the configuration
file are applied. Features marked ignored are hidden unless --all is
given. An optional chip pattern restricts the output.`,
	Example: `  # Show everything
  hwsense show

  # One chip family only
  hwsense show "lm78-*"

  # Include ignored features
  hwsense show --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showAll, "all", false, "Include features marked ignored")
}

func runShow(cmd *cobra.Command, args []string) error {
	pattern, err := parseChipArg(args)
	if err != nil {
		return err
	}

	a, sysfs, err := openAccessor()
	if err != nil {
		return err
	}

	shown := 0
	for _, name := range sysfs.Chips() {
		if !chip.Match(pattern, name) {
			continue
		}
		shown++
		fmt.Println(name)
		fmt.Printf("Adapter: %s\n", sysfs.AdapterName(name.Bus))

		for it := a.Catalog().Features(name.Prefix); ; {
			f := it.Next()
			if f == nil {
				break
			}
			if err := printFeature(a, name, f); err != nil {
				return err
			}
		}
		fmt.Println()
	}

	if shown == 0 {
		return fmt.Errorf("no chips match %v", pattern)
	}
	return nil
}

// printFeature prints one feature line, honoring ignores and access
// mode. Read failures are reported inline rather than aborting the
// whole listing.
func printFeature(a *access.Accessor, name chip.Name, f *catalog.Feature) error {
	ignored, err := a.GetIgnored(name, f.Number)
	if err != nil {
		return err
	}
	if ignored && !showAll {
		return nil
	}

	label, err := a.GetLabel(name, f.Number)
	if err != nil {
		return err
	}

	indent := ""
	if f.Mapping != catalog.NoMapping {
		indent = "  "
	}

	if !f.Mode.CanRead() {
		fmt.Printf("%s%-24s (write only)\n", indent, label+":")
		return nil
	}

	value, err := a.GetValue(name, f.Number)
	if err != nil {
		fmt.Printf("%s%-24s ERROR: %v\n", indent, label+":", err)
		return nil
	}

	line := fmt.Sprintf("%s%-24s %s", indent, label+":", formatValue(f.Type(), value))
	if ignored {
		line += "  (ignored)"
	}
	fmt.Println(line)
	return nil
}

// formatValue renders a value with the unit conventional for its type.
func formatValue(t catalog.FeatureType, value float64) string {
	switch t {
	case catalog.TypeTemp, catalog.TypeTempMax, catalog.TypeTempMaxHyst,
		catalog.TypeTempMin, catalog.TypeTempCrit, catalog.TypeTempCritHyst:
		return fmt.Sprintf("%+.1f°C", value)
	case catalog.TypeFan, catalog.TypeFanMin:
		return fmt.Sprintf("%.0f RPM", value)
	case catalog.TypeFanDiv:
		return fmt.Sprintf("%.0f", value)
	case catalog.TypeIn, catalog.TypeInMin, catalog.TypeInMax,
		catalog.TypeVID, catalog.TypeVRM:
		return fmt.Sprintf("%+.2f V", value)
	case catalog.TypeInAlarm, catalog.TypeInMinAlarm, catalog.TypeInMaxAlarm,
		catalog.TypeFanAlarm, catalog.TypeTempAlarm, catalog.TypeTempMinAlarm,
		catalog.TypeTempMaxAlarm, catalog.TypeTempCritAlarm:
		if value != 0 {
			return "ALARM"
		}
		return "ok"
	case catalog.TypeFanFault, catalog.TypeTempFault:
		if value != 0 {
			return "FAULT"
		}
		return "ok"
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// getCmd reads a single feature
var getCmd = &cobra.Command{
	Use:   "get <chip> <feature>",
	Short: "Read one sensor feature",
	Long: `Read a single feature from every chip matching the given name.

The chip argument may contain wildcards; the feature is named by its
raw name (temp1, fan2_min), not its configured label. The value shown
has the configured conversion applied.`,
	Example: `  # Temperature on a specific chip
  hwsense get lm78-i2c-0-2d temp1

  # A limit across all chips of a family
  hwsense get "w83781d-*" temp1_max`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	pattern, err := chip.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid chip %q: %w", args[0], err)
	}
	featureName := args[1]

	a, sysfs, err := openAccessor()
	if err != nil {
		return err
	}

	matched := 0
	for _, name := range sysfs.Chips() {
		if !chip.Match(pattern, name) {
			continue
		}
		f := a.Catalog().LookupName(name.Prefix, featureName)
		if f == nil {
			continue
		}
		matched++

		value, err := a.GetValue(name, f.Number)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %g\n", name, f.Name, value)
	}

	if matched == 0 {
		return fmt.Errorf("no chip matching %q has a feature %q", args[0], featureName)
	}
	return nil
}

// setCmd writes a single feature
var setCmd = &cobra.Command{
	Use:   "set <chip> <feature> <value>",
	Short: "Write one sensor feature",
	Long: `Write a value to a feature on every chip matching the given name.

The value is given in configured units; the inverse conversion from
the configuration file is applied before writing. Writing usually
requires root.`,
	Example: `  # Raise a temperature limit
  hwsense set lm78-i2c-0-2d temp1_max 65

  # Set a fan minimum on all chips of a family
  hwsense set "lm78-*" fan1_min 2500`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	pattern, err := chip.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid chip %q: %w", args[0], err)
	}
	featureName := args[1]
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[2], err)
	}

	a, sysfs, err := openAccessor()
	if err != nil {
		return err
	}

	matched := 0
	for _, name := range sysfs.Chips() {
		if !chip.Match(pattern, name) {
			continue
		}
		f := a.Catalog().LookupName(name.Prefix, featureName)
		if f == nil {
			continue
		}
		matched++

		if err := a.SetValue(name, f.Number, value); err != nil {
			return err
		}
		fmt.Printf("%s %s set to %g\n", name, f.Name, value)
	}

	if matched == 0 {
		return fmt.Errorf("no chip matching %q has a feature %q", args[0], featureName)
	}
	return nil
}

// applyCmd runs the configured set directives
var applyCmd = &cobra.Command{
	Use:   "apply [pattern]",
	Short: "Apply configured set directives",
	Long: `Apply every set directive from the configuration file.

Each matched chip receives the configured values, newest directive
winning when several name the same feature. Individual failures are
logged and skipped; the first failure is reported at the end. An
optional chip pattern restricts which chips are touched.`,
	Example: `  # Apply all configured values (typically at boot)
  hwsense apply

  # Only one chip family
  hwsense apply "w83781d-*"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	a, _, err := openAccessor()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return a.ApplyAllSets()
	}
	pattern, err := chip.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid chip pattern %q: %w", args[0], err)
	}
	return a.ApplySets(pattern)
}

// classifyCmd reports the semantic type of feature names
var classifyCmd = &cobra.Command{
	Use:   "classify <name>...",
	Short: "Classify feature names",
	Long: `Report the semantic category of one or more feature names.

Classification is derived purely from the name (temp1_max is a
temperature limit, fan2_fault a fan fault flag) and does not require
any hardware.`,
	Example: `  hwsense classify temp1_max fan2 in0_alarm vid`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		fmt.Printf("%-24s %s\n", name, catalog.Classify(name))
	}
	return nil
}

// watchCmd shows a live readings table
var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Watch sensor readings live",
	Long: `Display a live, periodically refreshing table of sensor readings.

Labels, conversions and ignores from the configuration file are
applied. Press q to quit. An optional chip pattern restricts which
chips are sampled.`,
	Example: `  # Watch everything, refreshing every 2 seconds
  hwsense watch

  # Watch temperatures of one chip, fast refresh
  hwsense watch "coretemp-*" --interval 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchInterval, "interval", 2, "Refresh interval in seconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	pattern, err := parseChipArg(args)
	if err != nil {
		return err
	}

	a, sysfs, err := openAccessor()
	if err != nil {
		return err
	}

	refresh := func() ([]ui.Reading, error) {
		var rows []ui.Reading
		for _, name := range sysfs.Chips() {
			if !chip.Match(pattern, name) {
				continue
			}
			for it := a.Catalog().Features(name.Prefix); ; {
				f := it.Next()
				if f == nil {
					break
				}
				if !f.Mode.CanRead() {
					continue
				}
				r, err := sampleReading(a, name, f)
				if err != nil {
					return rows, err
				}
				if r != nil {
					rows = append(rows, *r)
				}
			}
		}
		return rows, nil
	}

	return ui.RunWatch(refresh, time.Duration(watchInterval)*time.Second)
}

// sampleReading builds one watch row, or nil for ignored features.
// Read errors become part of the row so one flaky attribute does not
// blank the whole table.
func sampleReading(a *access.Accessor, name chip.Name, f *catalog.Feature) (*ui.Reading, error) {
	ignored, err := a.GetIgnored(name, f.Number)
	if err != nil {
		return nil, err
	}
	if ignored {
		return nil, nil
	}
	label, err := a.GetLabel(name, f.Number)
	if err != nil {
		return nil, err
	}

	r := ui.Reading{
		Chip:  name.String(),
		Label: label,
		Type:  f.Type().String(),
	}
	value, err := a.GetValue(name, f.Number)
	if err != nil {
		r.Value = "ERR"
	} else {
		r.Value = formatValue(f.Type(), value)
	}
	return &r, nil
}
