// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Ununennium119/Net2Emami/internal/config"
	"github.com/Ununennium119/Net2Emami/internal/logger"
	"github.com/Ununennium119/Net2Emami/internal/portal"
	"github.com/Ununennium119/Net2Emami/internal/session"
)

// options holds the resolved settings of a run.
type options struct {
	config        *config.Config
	portalOptions []portal.Option
	notifyContext func(context.Context) (context.Context, context.CancelFunc)

	lock sync.Mutex
}

// interruptContext is cancelled on the first SIGINT or SIGTERM.
func interruptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	return o.config.Validate()
}

// execute reads the credentials and runs the session cycle with the logger carried by
// ctx until the process is interrupted or ctx is cancelled. Only the first interrupt is
// caught: a second one terminates the process even while a request is in flight.
func (o *options) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	credentials, err := o.config.Credentials()
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Configure(o.config.Level(), o.config.LogFile,
		logger.WithDirectory(o.config.LogDir),
		logger.WithFormat(o.config.Format()),
	)
	log.Debug("configuration loaded",
		"credentials", credentials.String(),
		"loginRetry", o.config.LoginRetry,
		"logoutRetry", o.config.LogoutRetry,
		"cycle", o.config.Cycle,
	)

	client := portal.NewClient(append([]portal.Option{portal.WithLogger(log)}, o.portalOptions...)...)
	cycler := session.New(credentials, o.config.Timings(), client, log)

	notifyContext := o.notifyContext
	if notifyContext == nil {
		notifyContext = interruptContext
	}
	ctx, stop := notifyContext(ctx)
	defer stop()

	go func() {
		<-ctx.Done()
		stop()
		cycler.Stop()
	}()

	cycler.Run(ctx)
	return nil
}
