package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tessro/plexwatch/internal/core"
	perrors "github.com/tessro/plexwatch/internal/errors"
	"github.com/tessro/plexwatch/internal/watch/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const oneTrackDoc = `<MediaContainer size="1">
  <Track title="Song A" parentTitle="Album A" grandparentTitle="Artist A" viewOffset="30000">
    <Media duration="120000"/>
    <Player title="Living Room" state="playing"/>
  </Track>
</MediaContainer>`

func TestTick_Renders(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte(oneTrackDoc), nil)
	display.EXPECT().Render(gomock.Any()).DoAndReturn(func(s *core.Snapshot) error {
		if s.Len() != 1 {
			t.Errorf("Render() got %d devices, want 1", s.Len())
		}
		d := s.Device("Living Room")
		if d == nil || d.Tracks[0].Progress != 25 {
			t.Errorf("Render() got unexpected device %+v", d)
		}
		return nil
	})

	p := NewPoller(fetcher, display, time.Second, WithLogger(zap.NewNop()))
	if err := p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
}

func TestTick_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	fetcher.EXPECT().FetchSessions(gomock.Any()).Return(nil, perrors.ErrNetworkError)
	gomock.InOrder(
		display.EXPECT().Diagnostic(gomock.Any()),
		display.EXPECT().Diagnostic(MsgFetchFailed),
	)

	p := NewPoller(fetcher, display, time.Second)
	err := p.Tick(context.Background())
	if !errors.Is(err, perrors.ErrNetworkError) {
		t.Errorf("Tick() error = %v, want ErrNetworkError", err)
	}
}

func TestTick_EmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte{}, nil)
	display.EXPECT().Diagnostic(gomock.Any()).Times(2)

	p := NewPoller(fetcher, display, time.Second)
	if err := p.Tick(context.Background()); err == nil {
		t.Error("Tick() expected error for empty body")
	}
}

func TestTick_MalformedDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte("<MediaContainer><Track"), nil)
	gomock.InOrder(
		display.EXPECT().Diagnostic(gomock.Any()),
		display.EXPECT().Diagnostic(MsgNoDevices),
	)

	p := NewPoller(fetcher, display, time.Second)
	err := p.Tick(context.Background())
	if !errors.Is(err, perrors.ErrMalformedDocument) {
		t.Errorf("Tick() error = %v, want ErrMalformedDocument", err)
	}
}

func TestTick_NoDevices(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte(`<MediaContainer size="0"/>`), nil)
	display.EXPECT().Diagnostic(MsgNoDevices)

	p := NewPoller(fetcher, display, time.Second)
	if err := p.Tick(context.Background()); !errors.Is(err, perrors.ErrNoDevices) {
		t.Errorf("Tick() error = %v, want ErrNoDevices", err)
	}
}

func TestTick_RenderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	boom := errors.New("broken pipe")
	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte(oneTrackDoc), nil)
	display.EXPECT().Render(gomock.Any()).Return(boom)

	p := NewPoller(fetcher, display, time.Second)
	if err := p.Tick(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Tick() error = %v, want %v", err, boom)
	}
}

func TestTick_CustomParser(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	want := core.NewSnapshot(time.Now())
	want.Ensure("Desk", core.StatePlaying)

	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte("anything"), nil)
	display.EXPECT().Render(want).Return(nil)

	p := NewPoller(fetcher, display, time.Second, WithParser(func([]byte) (*core.Snapshot, error) {
		return want, nil
	}))
	if err := p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
}

func TestTick_AppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	fetcher.EXPECT().FetchSessions(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]byte, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("FetchSessions() context has no deadline")
		}
		return []byte(oneTrackDoc), nil
	})
	display.EXPECT().Render(gomock.Any()).Return(nil)

	p := NewPoller(fetcher, display, time.Second, WithTimeout(50*time.Millisecond))
	if err := p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
}

func TestRun_Once(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte(oneTrackDoc), nil).Times(1)
	display.EXPECT().Render(gomock.Any()).Return(nil).Times(1)

	p := NewPoller(fetcher, display, time.Hour, WithOnce(true))
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_KeepsPollingAfterErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		fetcher.EXPECT().FetchSessions(gomock.Any()).Return(nil, perrors.ErrTimeout),
		fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte(oneTrackDoc), nil),
	)
	display.EXPECT().Diagnostic(gomock.Any()).Times(2)
	display.EXPECT().Render(gomock.Any()).DoAndReturn(func(*core.Snapshot) error {
		cancel()
		return nil
	})
	fetcher.EXPECT().FetchSessions(gomock.Any()).Return([]byte(oneTrackDoc), nil).AnyTimes()
	display.EXPECT().Render(gomock.Any()).Return(nil).AnyTimes()

	p := NewPoller(fetcher, display, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	display := mocks.NewMockDisplay(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The first tick always runs; a cancelled fetch is not reported.
	fetcher.EXPECT().FetchSessions(gomock.Any()).Return(nil, context.Canceled)

	p := NewPoller(fetcher, display, time.Hour)
	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(nil, nil, 0)
	if p.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", p.Interval(), DefaultInterval)
	}
}
