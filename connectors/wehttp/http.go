package wehttp

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"

	"github.com/weegigs/wee-store-go/we"
)

// StateStore is the part of a store the handler serves.
type StateStore[S any] interface {
	Snapshot() we.Snapshot[S]
	Dispatch(ctx context.Context, action we.Action)
}

type HandlerOption[S any] func(service *httpService[S])

func Logger[S any](log *zerolog.Logger) HandlerOption[S] {
	return func(service *httpService[S]) {
		service.log = log
	}
}

// NewHandler serves the store's snapshot at GET /state and dispatches the
// remote actions posted to /actions. Only actions with a decoder are
// accepted.
func NewHandler[S any](store StateStore[S], decoders we.ActionDecoders, options ...HandlerOption[S]) http.Handler {
	service := &httpService[S]{store: store, decoders: decoders}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Method("GET", "/state", service.getState())
	r.Method("POST", "/actions", service.dispatchAction())

	return WithTelemetry(r, "we-http")
}

type httpService[S any] struct {
	log      *zerolog.Logger
	store    StateStore[S]
	decoders we.ActionDecoders
}

type problem struct {
	Error  string        `json:"error"`
	Action we.ActionType `json:"action,omitempty"`
	Field  string        `json:"field,omitempty"`
}

func fail(w http.ResponseWriter, r *http.Request, status int, p problem) {
	render.Status(r, status)
	render.JSON(w, r, p)
}

func (service *httpService[S]) getState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.encode(w, r, service.store.Snapshot())
	}
}

func (service *httpService[S]) dispatchAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-type")
		mediaType, _, err := mime.ParseMediaType(contentType)
		if mediaType != "application/json" || err != nil {
			fail(w, r, http.StatusUnsupportedMediaType, problem{Error: "unsupported content type"})
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			fail(w, r, http.StatusBadRequest, problem{Error: "invalid request body"})
			return
		}

		var remote we.RemoteAction
		if err := json.UnmarshalContext(r.Context(), body, &remote); err != nil || remote.Type == "" {
			service.log.Info().Err(err).Msg("failed to unmarshal action")
			fail(w, r, http.StatusBadRequest, problem{Error: "invalid request body"})
			return
		}

		action, err := service.decoders.Decode(r.Context(), remote)
		if err != nil {
			service.rejected(w, r, remote, err)
			return
		}

		service.store.Dispatch(r.Context(), action)
		service.encode(w, r, service.store.Snapshot())
	}
}

func (service *httpService[S]) rejected(w http.ResponseWriter, r *http.Request, remote we.RemoteAction, err error) {
	service.log.Info().Err(err).Str("action", remote.Type.String()).Msg("action rejected")

	var unknown we.UnknownActionError
	if errors.As(err, &unknown) {
		fail(w, r, http.StatusUnprocessableEntity, problem{Error: "unsupported action", Action: remote.Type})
		return
	}

	var invalid *we.ValidationError
	if errors.As(err, &invalid) {
		fail(w, r, http.StatusBadRequest, problem{Error: invalid.Error(), Action: remote.Type, Field: invalid.Field})
		return
	}

	fail(w, r, http.StatusBadRequest, problem{Error: "invalid payload", Action: remote.Type})
}

func (service *httpService[S]) encode(w http.ResponseWriter, r *http.Request, snapshot we.Snapshot[S]) {
	body, err := json.MarshalContext(r.Context(), snapshot)
	if err != nil {
		service.log.Error().Err(err).Msg("failed to encode snapshot")
		http.Error(w, "failed to encode state", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		service.log.Warn().Err(err).Msg("failed to write response")
	}
}
