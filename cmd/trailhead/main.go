// Package main is the entry point for the trailhead demo host.
// It serves a small set of routes exercising the trailhead stack.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/auth"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/ranger"
	"golang.org/x/time/rate"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for trailhead.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trailhead",
		Short: "Demo REST host built on trailhead",
		Long: `A demo REST host serving a handful of routes built on trailhead.

Example:
  trailhead serve --config trailhead.yaml`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (YAML)")
	rootCmd.AddCommand(newServeCmd(), newTokenCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			rng, err := newRanger(cfg)
			if err != nil {
				return err
			}

			return rng.Guide(cmd.Context())
		},
	}

	cmd.Flags().StringP("addr", "a", "", "Address to listen on, e.g. :3000")
	cmd.Flags().StringP("log-level", "l", "", "Log level (debug, info, warn, error)")

	return cmd
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Sign a token the demo host accepts for subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			ttl, err := cmd.Flags().GetDuration("ttl")
			if err != nil {
				return fmt.Errorf("failed to get ttl flag: %w", err)
			}

			a, err := auth.NewJWTAuthenticator(cfg.JWTKey, nil)
			if err != nil {
				return fmt.Errorf("%w: jwtKey: %s", trailhead.ErrBadConfig, err)
			}

			signed, err := a.Sign(jwt.RegisteredClaims{
				Subject:   args[0],
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().Duration("ttl", time.Hour, "How long the token is valid for")

	return cmd
}

// configFrom loads the Config named by the --config flag,
// letting the flags cmd defines override it.
func configFrom(cmd *cobra.Command) (*Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}

	return cfg, nil
}

// newRanger constructs the *ranger.Ranger cfg describes, with the demo routes registered.
func newRanger(cfg *Config) (*ranger.Ranger, error) {
	var opts []ranger.RangerOption
	if cfg.Env != "" {
		opts = append(opts, ranger.WithEnv(cfg.Env))
	}

	if cfg.LogLevel != "" {
		l := logger.New(logger.WithLevel(logger.NewLogLevel(cfg.LogLevel)), logger.WithEnv(cfg.Env.String()))
		opts = append(opts, ranger.WithLogger(l))
	}

	if cfg.Addr != "" {
		opts = append(opts, ranger.WithServer(&http.Server{
			Addr:         cfg.Addr,
			ReadTimeout:  durationOr(cfg.Timeouts.Read, ranger.DefaultServerReadTimeout),
			WriteTimeout: durationOr(cfg.Timeouts.Write, ranger.DefaultServerWriteTimeout),
			IdleTimeout:  durationOr(cfg.Timeouts.Idle, ranger.DefaultServerIdleTimeout),
		}))
	}

	if cfg.MaxBodyBytes > 0 {
		opts = append(opts, ranger.WithMaxBodyBytes(cfg.MaxBodyBytes))
	}

	if len(cfg.CORSOrigins) > 0 {
		opts = append(opts, ranger.WithCORS(cfg.CORSOrigins...))
	}

	if cfg.RateLimit.Limit > 0 {
		opts = append(opts, ranger.WithRateLimit(rate.Limit(cfg.RateLimit.Limit), cfg.RateLimit.Burst))
	}

	if cfg.JWTKey != "" {
		a, err := auth.NewJWTAuthenticator(cfg.JWTKey, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: jwtKey: %s", trailhead.ErrBadConfig, err)
		}

		opts = append(opts, ranger.WithAuthenticator(a))
	}

	if cfg.Metrics {
		opts = append(opts, ranger.WithMetrics(prometheus.NewRegistry()))
	}

	if cfg.Tracing {
		opts = append(opts, ranger.WithTracing(nil))
	}

	if cfg.ForceHTTPS {
		opts = append(opts, ranger.WithForceHTTPS())
	}

	rng, err := ranger.New(opts...)
	if err != nil {
		return nil, err
	}

	if err := rng.UnauthedRoutes(unauthedRoutes()...); err != nil {
		return nil, err
	}

	if err := rng.AuthedRoutes(authedRoutes()...); err != nil {
		return nil, err
	}

	if cfg.Static.Dir != "" {
		prefix := cfg.Static.Prefix
		if prefix == "" {
			prefix = "/assets"
		}

		if err := rng.Static(prefix, http.Dir(cfg.Static.Dir)); err != nil {
			return nil, err
		}
	}

	return rng, nil
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}

	return d
}

