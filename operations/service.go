package operations

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/evergreen-ci/changepoint/rest"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Service returns the ./changepoint service sub-command object, which is
// responsible for starting the REST service.
func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run the change point detection api service",
		Flags: mergeFlags(baseFlags(), serviceFlags(), addConfigFlag(), detectorFlags()),
		Action: func(c *cli.Context) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts, err := detectorOptions(c)
			if err != nil {
				return errors.WithStack(err)
			}

			service := &rest.Service{
				Port:    c.Int(servicePortFlag),
				Prefix:  c.String(servicePrefixFlag),
				Workers: c.Int(numWorkersFlag),
				Options: opts,
			}

			if err = service.Validate(); err != nil {
				return errors.Wrap(err, "problem validating service")
			}

			grip.Noticef("starting change point service on :%d", service.Port)
			if err = service.Start(ctx); err != nil {
				return errors.Wrap(err, "problem running service")
			}
			grip.Info("completed service, terminating.")
			return nil
		},
	}
}
