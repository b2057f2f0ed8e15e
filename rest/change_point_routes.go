package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/changepoint/perf"
	"github.com/evergreen-ci/changepoint/units"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// DetectRequest is the body of the detection routes. Options left at
// their zero value take the service defaults.
type DetectRequest struct {
	Name    string                `json:"name"`
	Series  []float64             `json:"series"`
	Options *perf.DetectorOptions `json:"options,omitempty"`
}

type DetectResponse struct {
	Name         string                      `json:"name,omitempty"`
	Result       *perf.PermutationTestResult `json:"result"`
	ChangePoints []perf.ChangePoint          `json:"change_points"`
}

type JobResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	Completed    bool                        `json:"completed"`
	Error        string                      `json:"error,omitempty"`
	Result       *perf.PermutationTestResult `json:"result,omitempty"`
	ChangePoints []perf.ChangePoint          `json:"change_points,omitempty"`
}

// mergeOptions overlays the explicitly set fields of the request options
// on the service defaults.
func mergeOptions(defaults perf.DetectorOptions, req *perf.DetectorOptions) perf.DetectorOptions {
	out := defaults
	if req == nil {
		return out
	}

	if req.Algorithm != "" {
		out.Algorithm = req.Algorithm
	}
	if req.Delta != 0 {
		out.Delta = req.Delta
	}
	if req.Permutations != 0 {
		out.Permutations = req.Permutations
	}
	if req.PValue != 0 {
		out.PValue = req.PValue
	}
	if req.Seed != 0 {
		out.Seed = req.Seed
	}
	if req.Workers != 0 {
		out.Workers = req.Workers
	}

	return out
}

func badRequest(err error) gimlet.Responder {
	return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
	})
}

func parseDetectRequest(r *http.Request, defaults perf.DetectorOptions) (DetectRequest, perf.DetectorOptions, error) {
	body := utility.NewRequestReader(r)
	defer body.Close()

	req := DetectRequest{}
	if err := utility.ReadJSON(body, &req); err != nil {
		return req, defaults, errors.Wrap(err, "problem parsing request body")
	}

	opts := mergeOptions(defaults, req.Options)
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(len(req.Series) == 0, "must specify a series")
	catcher.Wrap(opts.Validate(), "invalid detector options")

	return req, opts, catcher.Resolve()
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /change_points/detect

type detectChangePointsHandler struct {
	defaults perf.DetectorOptions
	req      DetectRequest
	opts     perf.DetectorOptions
}

func makeDetectChangePoints(defaults perf.DetectorOptions) gimlet.RouteHandler {
	return &detectChangePointsHandler{defaults: defaults}
}

// Factory returns a pointer to a new detectChangePointsHandler.
func (h *detectChangePointsHandler) Factory() gimlet.RouteHandler {
	return &detectChangePointsHandler{defaults: h.defaults}
}

// Parse reads the series and options from the request body.
func (h *detectChangePointsHandler) Parse(_ context.Context, r *http.Request) error {
	var err error
	h.req, h.opts, err = parseDetectRequest(r, h.defaults)
	return err
}

// Run tests the series and reports the change point, if any.
func (h *detectChangePointsHandler) Run(ctx context.Context) gimlet.Responder {
	detector, err := perf.NewDetector(h.opts)
	if err != nil {
		return badRequest(err)
	}

	result, err := detector.Test(ctx, h.req.Series)
	if err != nil {
		err = errors.Wrapf(err, "problem detecting change points in series '%s'", h.req.Name)
		switch errors.Cause(err) {
		case perf.ErrInvalidValue, perf.ErrDegenerateInput, perf.ErrInvalidSplit:
			return badRequest(err)
		}
		logRouteError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/change_points/detect",
			"series":  h.req.Name,
		})
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return gimlet.NewJSONResponse(&DetectResponse{
		Name:         h.req.Name,
		Result:       result,
		ChangePoints: detector.ChangePoints(result),
	})
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /change_points/jobs

type submitDetectionJobHandler struct {
	queue    amboy.Queue
	defaults perf.DetectorOptions
	req      DetectRequest
	opts     perf.DetectorOptions
}

func makeSubmitDetectionJob(q amboy.Queue, defaults perf.DetectorOptions) gimlet.RouteHandler {
	return &submitDetectionJobHandler{queue: q, defaults: defaults}
}

// Factory returns a pointer to a new submitDetectionJobHandler.
func (h *submitDetectionJobHandler) Factory() gimlet.RouteHandler {
	return &submitDetectionJobHandler{queue: h.queue, defaults: h.defaults}
}

func (h *submitDetectionJobHandler) Parse(_ context.Context, r *http.Request) error {
	var err error
	h.req, h.opts, err = parseDetectRequest(r, h.defaults)
	if err != nil {
		return err
	}
	if h.req.Name == "" {
		h.req.Name = "series"
	}
	return nil
}

// Run enqueues a detection job and returns its id.
func (h *submitDetectionJobHandler) Run(ctx context.Context) gimlet.Responder {
	j := units.NewDetectChangePointJob(h.req.Name, h.req.Series, h.opts)
	if err := h.queue.Put(ctx, j); err != nil {
		err = errors.Wrapf(err, "problem queueing detection job for series '%s'", h.req.Name)
		logRouteError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/change_points/jobs",
			"series":  h.req.Name,
		})
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return gimlet.NewJSONResponse(&JobResponse{ID: j.ID(), Name: h.req.Name})
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /change_points/jobs/{id}

type getDetectionJobHandler struct {
	queue amboy.Queue
	id    string
}

func makeGetDetectionJob(q amboy.Queue) gimlet.RouteHandler {
	return &getDetectionJobHandler{queue: q}
}

// Factory returns a pointer to a new getDetectionJobHandler.
func (h *getDetectionJobHandler) Factory() gimlet.RouteHandler {
	return &getDetectionJobHandler{queue: h.queue}
}

// Parse fetches the id from the http request.
func (h *getDetectionJobHandler) Parse(_ context.Context, r *http.Request) error {
	h.id = gimlet.GetVars(r)["id"]
	if h.id == "" {
		return errors.New("must specify a job id")
	}
	return nil
}

// Run reports the status of the job and, once complete, its result.
func (h *getDetectionJobHandler) Run(ctx context.Context) gimlet.Responder {
	j, ok := h.queue.Get(ctx, h.id)
	if !ok {
		err := gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    "job '" + h.id + "' not found",
		}
		logRouteError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "GET",
			"route":   "/change_points/jobs/{id}",
			"id":      h.id,
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	dj, ok := j.(*units.DetectChangePointJob)
	if !ok {
		return badRequest(errors.Errorf("job '%s' is not a change point detection job", h.id))
	}

	resp := &JobResponse{
		ID:        dj.ID(),
		Name:      dj.SeriesName,
		Completed: dj.Status().Completed,
	}
	if resp.Completed {
		if err := dj.Error(); err != nil {
			resp.Error = err.Error()
		}
		resp.Result = dj.Result
		resp.ChangePoints = dj.ChangePoints
	}

	return gimlet.NewJSONResponse(resp)
}
