package cmd

import (
	"fmt"
	"os"

	gnpia "github.com/gnames/gnpia/pkg"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", gnpia.Version, gnpia.Build)
		os.Exit(0)
	}
}

// flagOptions converts flags set by a user to config options. Flags
// that were not changed keep values of config file and environment.
func flagOptions(cmd *cobra.Command, fs ...flagOption) []config.Option {
	var res []config.Option
	for _, f := range fs {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if opt := f.opt(cmd); opt != nil {
			res = append(res, opt)
		}
	}
	return res
}

type flagOption struct {
	name string
	opt  func(cmd *cobra.Command) config.Option
}

func stringFlag(name string, fn func(string) config.Option) flagOption {
	return flagOption{
		name: name,
		opt: func(cmd *cobra.Command) config.Option {
			s, err := cmd.Flags().GetString(name)
			if err != nil {
				return nil
			}
			return fn(s)
		},
	}
}

func boolFlag(name string, fn func(bool) config.Option) flagOption {
	return flagOption{
		name: name,
		opt: func(cmd *cobra.Command) config.Option {
			b, err := cmd.Flags().GetBool(name)
			if err != nil {
				return nil
			}
			return fn(b)
		},
	}
}

func intFlag(name string, fn func(int) config.Option) flagOption {
	return flagOption{
		name: name,
		opt: func(cmd *cobra.Command) config.Option {
			i, err := cmd.Flags().GetInt(name)
			if err != nil {
				return nil
			}
			return fn(i)
		},
	}
}

func stringArrayFlag(name string, fn func([]string) config.Option) flagOption {
	return flagOption{
		name: name,
		opt: func(cmd *cobra.Command) config.Option {
			ss, err := cmd.Flags().GetStringArray(name)
			if err != nil {
				return nil
			}
			return fn(ss)
		},
	}
}
