// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Ununennium119/Net2Emami/internal/config"
	"github.com/Ununennium119/Net2Emami/internal/logger"
)

const (
	credentialsFlagName  = "credentials"
	credentialsFlagShort = "c"
	credentialsFlagUsage = "path of the file holding the username on the first line and the password on the second"

	loginRetryFlagName  = "login-retry"
	loginRetryFlagShort = "i"
	loginRetryFlagUsage = "seconds to wait before retrying a failed login"

	logoutRetryFlagName  = "logout-retry"
	logoutRetryFlagShort = "o"
	logoutRetryFlagUsage = "seconds to wait before retrying a failed logout"

	cycleFlagName  = "cycle"
	cycleFlagShort = "y"
	cycleFlagUsage = "seconds to wait between two successful logins"

	logFileFlagName  = "log-file"
	logFileFlagUsage = "also append the log lines to a file named after the start time"

	logDirFlagName  = "log-dir"
	logDirFlagUsage = "directory where the log file is created"

	logFormatFlagName  = "log-format"
	logFormatFlagUsage = "format of the log lines (text or json)"

	configFlagName  = "config"
	configFlagUsage = "path of an optional YAML configuration file"

	// logLevelFlagName is the persistent flag registered by the root command.
	logLevelFlagName = "log-level"
)

// flags collects the CLI options of the run command.
type flags struct {
	credentialsPath string
	loginRetry      float64
	logoutRetry     float64
	cycle           float64
	logFile         bool
	logDir          string
	logFormat       string
	configPath      string
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.credentialsPath, credentialsFlagName, credentialsFlagShort, config.DefaultCredentialsPath, credentialsFlagUsage)
	cmd.Flags().Float64VarP(&f.loginRetry, loginRetryFlagName, loginRetryFlagShort, config.DefaultLoginRetry, loginRetryFlagUsage)
	cmd.Flags().Float64VarP(&f.logoutRetry, logoutRetryFlagName, logoutRetryFlagShort, config.DefaultLogoutRetry, logoutRetryFlagUsage)
	cmd.Flags().Float64VarP(&f.cycle, cycleFlagName, cycleFlagShort, config.DefaultCycle, cycleFlagUsage)
	cmd.Flags().BoolVar(&f.logFile, logFileFlagName, false, logFileFlagUsage)
	cmd.Flags().StringVar(&f.logDir, logDirFlagName, config.DefaultLogDir, logDirFlagUsage)
	cmd.Flags().StringVar(&f.logFormat, logFormatFlagName, string(logger.TextFormat), logFormatFlagUsage)
	cmd.Flags().StringVar(&f.configPath, configFlagName, "", configFlagUsage)

	_ = cmd.MarkFlagFilename(credentialsFlagName)
	_ = cmd.MarkFlagFilename(configFlagName, "yaml", "yml")
	_ = cmd.MarkFlagDirname(logDirFlagName)
}

// toOptions loads the layered configuration and overrides it with the flags
// explicitly set on the command line.
func (f *flags) toOptions(cmd *cobra.Command) (*options, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed(credentialsFlagName) {
		cfg.CredentialsPath = f.credentialsPath
	}
	if changed(loginRetryFlagName) {
		cfg.LoginRetry = f.loginRetry
	}
	if changed(logoutRetryFlagName) {
		cfg.LogoutRetry = f.logoutRetry
	}
	if changed(cycleFlagName) {
		cfg.Cycle = f.cycle
	}
	if changed(logFileFlagName) {
		cfg.LogFile = f.logFile
	}
	if changed(logDirFlagName) {
		cfg.LogDir = f.logDir
	}
	if changed(logFormatFlagName) {
		cfg.LogFormat = f.logFormat
	}
	if levelFlag := cmd.Flag(logLevelFlagName); levelFlag != nil && levelFlag.Changed {
		cfg.LogLevel = levelFlag.Value.String()
	}

	return &options{
		config: cfg,
	}, nil
}
