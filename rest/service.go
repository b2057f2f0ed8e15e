package rest

import (
	"context"

	"github.com/evergreen-ci/changepoint/perf"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/pkg/errors"
)

const defaultQueueSize = 1024

type Service struct {
	Port    int
	Prefix  string
	Workers int
	Options perf.DetectorOptions

	// internal settings
	queue amboy.Queue
	app   *gimlet.APIApp
}

func (s *Service) Validate() error {
	if err := s.Options.Validate(); err != nil {
		return errors.Wrap(err, "invalid default detector options")
	}

	if s.Workers < 1 {
		s.Workers = 2
	}

	if s.queue == nil {
		s.queue = queue.NewLocalLimitedSize(s.Workers, defaultQueueSize)
	}

	if s.app == nil {
		s.app = gimlet.NewApp()
		s.addRoutes()
	}

	if s.Port == 0 {
		s.Port = 3000
	}

	if err := s.app.SetPort(s.Port); err != nil {
		return errors.WithStack(err)
	}

	if s.Prefix != "" {
		s.app.SetPrefix(s.Prefix)
	}

	return nil
}

// Start runs the queue and serves requests until the context is
// canceled.
func (s *Service) Start(ctx context.Context) error {
	if s.queue == nil || s.app == nil {
		return errors.New("application is not valid")
	}

	if err := s.queue.Start(ctx); err != nil {
		return errors.Wrap(err, "problem starting queue")
	}

	if err := s.app.Resolve(); err != nil {
		return errors.Wrap(err, "problem resolving routes")
	}

	return s.app.Run(ctx)
}

func (s *Service) addRoutes() {
	s.app.AddRoute("/status").Version(1).Get().Handler(s.statusHandler)
	s.app.AddRoute("/change_points/detect").Version(1).Post().RouteHandler(makeDetectChangePoints(s.Options))
	s.app.AddRoute("/change_points/jobs").Version(1).Post().RouteHandler(makeSubmitDetectionJob(s.queue, s.Options))
	s.app.AddRoute("/change_points/jobs/{id}").Version(1).Get().RouteHandler(makeGetDetectionJob(s.queue))
}
