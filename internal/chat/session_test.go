package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"eventist/internal/config"
	"eventist/internal/httpapi"
	"eventist/pkg/emitter"
	"eventist/pkg/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTestSession(t *testing.T, cfg config.Config) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(cfg, &out, zerolog.Nop())
	s.App.tick = 0
	s.Loop.RunPending()
	return s, &out
}

// say sends a user line and returns only the output it produced.
func say(s *Session, out *bytes.Buffer, line string) string {
	n := out.Len()
	s.Bus.Send(EventUser, line)
	s.Loop.RunPending()
	return out.String()[n:]
}

func TestSession_Startup(t *testing.T) {
	s, out := newTestSession(t, config.Config{})
	if got := out.String(); got != "BABY> " {
		t.Fatalf("startup output = %q", got)
	}
	if got, want := s.Modules(), []string{"ui-simple", "decoder", "filter"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("modules = %v, want %v", got, want)
	}
	want := map[string]int{EventConnected: 1, EventQuit: 1, EventApp: 2, EventUI: 1, EventUser: 2}
	if got := s.Info(); !reflect.DeepEqual(got, want) {
		t.Fatalf("info = %v, want %v", got, want)
	}
	if s.Depth() != 0 {
		t.Fatalf("depth = %d", s.Depth())
	}
}

func TestSession_Hello(t *testing.T) {
	s, out := newTestSession(t, config.Config{})
	if got := say(s, out, "hello"); got != "world!\nBABY> " {
		t.Fatalf("hello output = %q", got)
	}
}

func TestSession_FilterEatsHelpButOffersIt(t *testing.T) {
	s, out := newTestSession(t, config.Config{})

	if got := say(s, out, "help"); strings.Contains(got, "Available commands") {
		t.Fatalf("filter should swallow help, got %q", got)
	}
	got := say(s, out, "xyzzy")
	if !strings.Contains(got, "Available commands: clear help hello exit quit") {
		t.Fatalf("expected help offered for bad input, got %q", got)
	}
	got = say(s, out, "xyzzy")
	if strings.Contains(got, "Available commands") || strings.Contains(got, "I do not understand") {
		t.Fatalf("second bad input should be ignored, got %q", got)
	}
	if !strings.Contains(got, "BABY> ") {
		t.Fatalf("expected prompt, got %q", got)
	}
}

func TestSession_FilterOff(t *testing.T) {
	s, out := newTestSession(t, config.Config{})
	got := say(s, out, "filter off")
	if !strings.Contains(got, "disabling safety filter...") || !strings.HasSuffix(got, "OHAY> ") {
		t.Fatalf("filter off output = %q", got)
	}
	if info := s.Info(); info[EventUser] != 1 || info[EventApp] != 1 {
		t.Fatalf("filter handlers still registered: %v", info)
	}
	if got := say(s, out, "help"); !strings.Contains(got, "Available commands") {
		t.Fatalf("help should reach the decoder, got %q", got)
	}
}

func TestSession_DecoderQuitsAfterTolerance(t *testing.T) {
	s, out := newTestSession(t, config.Config{NoFilter: true})
	if got := out.String(); got != "OHAI> " {
		t.Fatalf("startup output = %q", got)
	}

	got := say(s, out, "what")
	if !strings.Contains(got, `I do not understand! Type "help" if you mind... 1 try left.`) {
		t.Fatalf("first bad input output = %q", got)
	}

	got = say(s, out, "what")
	for _, want := range []string{
		"Ewwww... you have killed my decoder!!!  :,(",
		"I'll die in 9 seconds...",
		"I'll die in 6 seconds...",
		"I'll die in 3 seconds...",
		"Good-bye, Cruel World!",
		"Have a great day!",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if _, ok := s.Info()[EventUser]; ok {
		t.Fatalf("decoder still registered: %v", s.Info())
	}
	if _, ok := s.Info()[EventQuit]; ok {
		t.Fatalf("quit handler should have fired once: %v", s.Info())
	}
	select {
	case <-s.App.Done():
	default:
		t.Fatalf("app should be done")
	}
}

func TestSession_ExitIsIdempotent(t *testing.T) {
	s, out := newTestSession(t, config.Config{NoFilter: true})
	say(s, out, "exit")
	s.Bus.Send(EventApp, "close")
	s.Loop.RunPending()
	if n := strings.Count(out.String(), "Have a great day!"); n != 1 {
		t.Fatalf("goodbye printed %d times: %q", n, out.String())
	}
	select {
	case <-s.App.Done():
	default:
		t.Fatalf("app should be done")
	}
}

func TestSession_VerboseMirrorsDispatches(t *testing.T) {
	s, out := newTestSession(t, config.Config{Verbose: true, NoFilter: true})
	if !strings.Contains(out.String(), "LOG: module.connected::ui-simple") {
		t.Fatalf("expected connection log, got %q", out.String())
	}
	if got := say(s, out, "hello"); !strings.Contains(got, "LOG: user::hello") {
		t.Fatalf("expected mirrored user event, got %q", got)
	}
}

func TestSession_Run(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(config.Config{NoFilter: true}, &out, zerolog.Nop())
	s.App.tick = 0

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx, strings.NewReader("hello\nquit\n")); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"world!", "Have a great day!"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in %q", want, out.String())
		}
	}
	if info := s.Info(); len(info) != 0 {
		t.Fatalf("modules still attached after run: %v", info)
	}
}

func TestSession_RunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(config.Config{}, &out, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, pr) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}

func TestSession_AdminInfo(t *testing.T) {
	s, _ := newTestSession(t, config.Config{})
	w := httptest.NewRecorder()
	httpapi.NewMux(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.InfoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Events[EventUser] != 2 || len(body.Modules) != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestUI_ReadInputQueuesLines(t *testing.T) {
	s, _ := newTestSession(t, config.Config{})
	if err := s.UI.ReadInput(strings.NewReader(" hello \nhelp\n")); err != nil {
		t.Fatalf("read: %v", err)
	}
	// two user lines plus the close request
	if n := s.Loop.Len(); n != 3 {
		t.Fatalf("queued %d tasks, want 3", n)
	}
}

func TestUI_IgnoresUnknownCommands(t *testing.T) {
	s, _ := newTestSession(t, config.Config{})
	res, err := s.Bus.Dispatch(EventUI, "dance")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res != emitter.NoResult {
		t.Fatalf("ui answered an unknown command: %v", res)
	}
	if res, _ := s.Bus.Dispatch(EventUI, "set.prompt", "X"); res != true {
		t.Fatalf("set.prompt result = %v", res)
	}
}
