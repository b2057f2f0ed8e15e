package rest

import (
	"net/http"

	"github.com/evergreen-ci/changepoint"
	"github.com/evergreen-ci/changepoint/perf"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/amboy"
)

////////////////////////////////////////////////////////////////////////
//
// GET /status

type StatusResponse struct {
	Revision string               `json:"revision"`
	Defaults perf.DetectorOptions `json:"defaults"`
	Queue    amboy.QueueStats     `json:"queue"`
}

func (s *Service) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := &StatusResponse{
		Revision: changepoint.BuildRevision,
		Defaults: s.Options,
		Queue:    s.queue.Stats(r.Context()),
	}

	gimlet.WriteJSON(w, resp)
}
