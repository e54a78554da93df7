package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tubelens/internal/ipc"
	"tubelens/internal/logging"
	"tubelens/internal/settings"
)

// settingsAccess reaches the settings store through the daemon when it is
// running and falls back to opening the store directly otherwise, so settings
// can be managed before the first serve.
type settingsAccess struct {
	client *ipc.Client
	store  *settings.Store
}

func (a settingsAccess) get(key string) (string, error) {
	if a.client != nil {
		resp, err := a.client.SettingsGet(key)
		if err != nil {
			return "", err
		}
		return resp.Value, nil
	}
	return a.store.Get(context.Background(), key)
}

func (a settingsAccess) set(key, value string) error {
	if a.client != nil {
		return a.client.SettingsSet(key, value)
	}
	return a.store.Set(context.Background(), key, value)
}

func (a settingsAccess) unset(key string) error {
	if a.client != nil {
		return a.client.SettingsUnset(key)
	}
	return a.store.Unset(context.Background(), key)
}

func (a settingsAccess) list() (map[string]string, error) {
	if a.client != nil {
		resp, err := a.client.SettingsList()
		if err != nil {
			return nil, err
		}
		return resp.Values, nil
	}
	values := make(map[string]string, len(settings.Keys()))
	for _, key := range settings.Keys() {
		value, err := a.store.Get(context.Background(), key)
		if err != nil {
			return nil, err
		}
		if value != "" && settings.Secret(key) {
			value = "********"
		}
		values[key] = value
	}
	return values, nil
}

func (c *commandContext) withSettings(fn func(settingsAccess) error) error {
	if client, err := c.dialClient(); err == nil {
		defer client.Close()
		return fn(settingsAccess{client: client})
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := settings.Open(cfg.SettingsDBPath(), logging.NewNop())
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer store.Close()
	return fn(settingsAccess{store: store})
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage analysis settings",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print a setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSettings(func(access settingsAccess) error {
				value, err := access.get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a setting value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSettings(func(access settingsAccess) error {
				if err := access.set(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
				return nil
			})
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "unset KEY",
		Short: "Revert a setting to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSettings(func(access settingsAccess) error {
				if err := access.unset(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
				return nil
			})
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all settings with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSettings(func(access settingsAccess) error {
				values, err := access.list()
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(settings.Keys()))
				for _, key := range settings.Keys() {
					rows = append(rows, []string{key, values[key]})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
				return nil
			})
		},
	})

	return settingsCmd
}
