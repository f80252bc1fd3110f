// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	runCmdUsage = "run"
	runCmdShort = "keep the captive portal session authenticated"
	runCmdLong  = `Keep the captive portal session authenticated.
	The command logs out and back in on a fixed cycle, retrying every request
	until the portal accepts it. It runs until interrupted with Ctrl+C.

	The credentials file contains the username on the first line and the
	password on the second one. Setting both NET2EMAMI_USERNAME and
	NET2EMAMI_PASSWORD replaces the file.

	Settings are read from the defaults, then the optional YAML config file,
	then the NET2EMAMI_* environment variables, and finally from the flags.`

	runCmdExample = `# Run with the credentials file in the current directory
	net2emami run

	# Refresh the session every minute and keep a log file
	net2emami run -c ~/.net2emami -y 60 --log-file --log-dir /var/log/net2emami

	# Print every request at the DEBUG level
	net2emami --log-level DEBUG run`
)

// RunCmd returns the Cobra command that starts the session cycle.
func RunCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     runCmdUsage,
		Short:   heredoc.Doc(runCmdShort),
		Long:    heredoc.Doc(runCmdLong),
		Example: heredoc.Doc(runCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return handleError(cmd, fmt.Errorf("%w: %w", errUnexpectedArguments, err))
			}
			return nil
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
