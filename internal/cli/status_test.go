package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/tessro/plexwatch/internal/core"
	perrors "github.com/tessro/plexwatch/internal/errors"
)

func TestSelectDevices(t *testing.T) {
	snapshot := core.NewSnapshot(time.Now())
	snapshot.Ensure("Living Room", core.StatePlaying)
	snapshot.Ensure("Kitchen", core.StatePaused)

	t.Run("no filter", func(t *testing.T) {
		result := selectDevices(snapshot, nil)
		if result.HasErrors() || result.Data.Len() != 2 {
			t.Errorf("selectDevices() = %d devices, errors %v", result.Data.Len(), result.Errors)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		result := selectDevices(snapshot, []string{"living room"})
		names := result.Data.DeviceNames()
		if len(names) != 1 || names[0] != "Living Room" {
			t.Errorf("selectDevices() = %v", names)
		}
		if result.HasErrors() {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("missing device", func(t *testing.T) {
		result := selectDevices(snapshot, []string{"Kitchen", "Garage"})
		if result.Data.Len() != 1 {
			t.Errorf("Len() = %d, want 1", result.Data.Len())
		}
		if len(result.Errors) != 1 || !errors.Is(result.Errors[0], perrors.ErrNoDevices) {
			t.Errorf("Errors = %v, want one ErrNoDevices", result.Errors)
		}
	})
}
