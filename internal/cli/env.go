package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const globalPrefix = "weeklyreport"

const errorMessagePrefix = "error mapping environment variables to command flags"

// checkEnvironmentVariables sets every flag of command that was not given on the
// command line from WEEKLYREPORT_<COMMAND>_<FLAG>, e.g. WEEKLYREPORT_RENDER_FONT_DIR
// for --font-dir. Flags of the root command use WEEKLYREPORT_<FLAG>.
func checkEnvironmentVariables(command *cobra.Command) error {
	var errs []string
	v := viper.New()
	v.AutomaticEnv()
	if command.Name() == globalPrefix || !command.HasParent() {
		v.SetEnvPrefix(globalPrefix)
	} else {
		v.SetEnvPrefix(fmt.Sprintf("%s_%s", globalPrefix, command.Name()))
	}
	visit := func(f *pflag.Flag) {
		configName := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed && v.IsSet(configName) {
			val := v.Get(configName)
			if err := f.Value.Set(fmt.Sprintf("%v", val)); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", f.Name, err))
				return
			}
			f.Changed = true
		}
	}
	command.LocalFlags().VisitAll(visit)

	// Persistent flags of the root command use the global prefix.
	root := viper.New()
	root.AutomaticEnv()
	root.SetEnvPrefix(globalPrefix)
	command.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		configName := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed && root.IsSet(configName) {
			if err := f.Value.Set(fmt.Sprintf("%v", root.Get(configName))); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", f.Name, err))
				return
			}
			f.Changed = true
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", errorMessagePrefix, strings.Join(errs, "; "))
}
