package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change chatsift settings.

Keys:
  archive.default   archive loaded when --archive is not given
  search.limit      default number of search results (1-1000)
  search.use_index  use the token index to narrow search candidates
  preview.length    characters shown in search previews (20-2000)`,
	RunE: runSettingsShow,
}

var settingsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"show"},
	Short:   "Show current settings",
	Args:    cobra.NoArgs,
	RunE:    runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Prompts for every setting in turn. Press enter to keep the current value.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()

	fmt.Fprintln(cmd.OutOrStdout(), "Current Settings")
	fmt.Fprintln(cmd.OutOrStdout(), "================")
	fmt.Fprintln(cmd.OutOrStdout())
	for _, key := range domain.SettingKeys() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-17s %s\n", key, displayValue(settingValue(settings, key)))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", settingsService.Path())
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if !isKnownKey(args[0]) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), settingValue(settingsService.Get(), args[0]))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], settingValue(settingsService.Get(), args[0]))
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s reset to %s\n", args[0], displayValue(settingValue(settingsService.Get(), args[0])))
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "chatsift Settings Wizard")
	fmt.Fprintln(cmd.OutOrStdout(), "========================")
	fmt.Fprintln(cmd.OutOrStdout())

	reader := bufio.NewReader(cmd.InOrStdin())
	current := settingsService.Get()
	for _, key := range domain.SettingKeys() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]: ", key, settingValue(current, key))
		input := readLine(reader)
		if input == "" {
			continue
		}
		if err := settingsService.Set(key, input); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Settings saved to %s\n", settingsService.Path())
	return nil
}

// settingValue formats the value of key from settings.
func settingValue(s domain.Settings, key string) string {
	switch key {
	case domain.SettingDefaultArchive:
		return s.DefaultArchive
	case domain.SettingSearchLimit:
		return strconv.Itoa(s.SearchLimit)
	case domain.SettingUseIndex:
		return strconv.FormatBool(s.UseIndex)
	case domain.SettingPreviewLength:
		return strconv.Itoa(s.PreviewLength)
	default:
		return ""
	}
}

func displayValue(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func isKnownKey(key string) bool {
	for _, k := range domain.SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
