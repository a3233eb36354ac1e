package chat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"eventist/internal/config"
	"eventist/internal/httpapi"
	"eventist/internal/instrument"
	"eventist/pkg/emitter"
)

// Session is one running chat: a bus with a host-owned loop and the modules
// attached to it.
type Session struct {
	ID   string
	Bus  *emitter.Emitter
	Loop *emitter.Loop

	App     *App
	UI      *UI
	Decoder *Decoder
	Filter  *Filter

	cfg config.Config
	log zerolog.Logger
}

// NewSession attaches the modules to a fresh bus and queues the first prompt.
// Nothing runs until Run (or Loop.RunPending) drains the loop.
func NewSession(cfg config.Config, out io.Writer, log zerolog.Logger) *Session {
	cfg = cfg.WithDefaults()
	id := uuid.NewString()
	log = log.With().Str("session", id).Logger()

	loop := emitter.NewLoop()
	bus := emitter.New(
		emitter.WithScheduler(loop),
		emitter.WithLogger(log),
		emitter.WithExecutor(instrument.Executor(instrument.TraceExecutor(log, nil))),
	)
	bus.Reporter(instrument.Reporter(instrument.LogReporter(log, nil)))

	s := &Session{
		ID:      id,
		Bus:     bus,
		Loop:    loop,
		App:     NewApp(cfg.QuitSeconds, cfg.QuitStepSeconds, cfg.Verbose),
		UI:      NewUI(out, cfg.Prompt),
		Decoder: NewDecoder(cfg.Tolerance),
		cfg:     cfg,
		log:     log,
	}
	if !cfg.NoFilter {
		s.Filter = NewFilter(cfg.FilterPrompt)
	}
	for _, m := range s.modules() {
		m.Attach(bus)
	}
	bus.Send(EventUI, "prompt")
	return s
}

// modules lists the attached modules in attach order. The filter goes last so
// its handlers run before the decoder's.
func (s *Session) modules() []Module {
	mods := []Module{s.App, s.UI, s.Decoder}
	if s.Filter != nil {
		mods = append(mods, s.Filter)
	}
	return mods
}

// Info returns the handler count per event on the session bus.
func (s *Session) Info() map[string]int { return s.Bus.Info() }

// Depth returns the number of dispatches in flight on the session bus.
func (s *Session) Depth() int { return s.Bus.Depth() }

// Modules lists the modules that announced themselves, in order.
func (s *Session) Modules() []string { return s.App.Connected() }

// Run feeds lines of in to the UI and drains the loop until the app exits or
// ctx is done. The admin server runs alongside when configured.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.Loop.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-s.App.Done():
			s.log.Debug().Msg("app exit")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	if s.cfg.AdminAddr != "" {
		srv := &http.Server{Addr: s.cfg.AdminAddr, Handler: httpapi.NewMux(s), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			s.log.Info().Str("addr", s.cfg.AdminAddr).Msg("admin listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// the reader may block on a terminal forever, so it is not part of the group
	go func() {
		if err := s.UI.ReadInput(in); err != nil {
			s.log.Error().Err(err).Msg("read input")
		}
	}()

	err := g.Wait()
	s.Close()
	return err
}

// Close detaches every module from the bus.
func (s *Session) Close() {
	for _, m := range s.modules() {
		s.Bus.UnplugAll(m)
	}
	s.Bus.Hook(nil)
}
