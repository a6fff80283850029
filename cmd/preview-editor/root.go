package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"preview-editor/internal/app"
	"preview-editor/internal/config"
	"preview-editor/internal/logger"
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"log-level": config.KeyLogLevel,
	"fps":       config.KeyFrameRate,
	"open":      config.KeyOpen,
	"watch":     config.KeyWatchSource,
}

func newRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "preview-editor",
		Short: "Load an image, preview a transform, then accept or discard it",
		Long: `preview-editor shows the current image next to a preview of the last
transform applied to it. Accept promotes the preview, discard drops it.

Configuration is read from preview-editor.yaml in the working directory (or
--config), PREVIEW_EDITOR_* environment variables and the flags below.`,
		Version:       app.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadViper(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./preview-editor.yaml)")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.Int("fps", 30, "frames per second")
	flags.StringP("open", "o", "", "image file to load at startup")
	flags.BoolP("watch", "w", false, "reload the image when its file changes on disk")

	return cmd
}

func loadViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := config.New(cfgFile)
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	if err := config.Read(v); err != nil {
		return nil, err
	}
	return v, nil
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	log := logger.New(cfg.Level(), cfg.LogFormat, os.Stderr)
	if used := v.ConfigFileUsed(); used != "" {
		log.Info("Main", "using config file", map[string]interface{}{"path": used})
	}

	application, err := app.NewApplication(cfg, log)
	if err != nil {
		log.Error("Main", err, nil)
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}
