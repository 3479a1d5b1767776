package flexpoint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/relabs-tech/flexpoint/internal/config"
)

func TestConfigFrom_DefaultsMatch(t *testing.T) {
	got := ConfigFrom(config.Default())
	if diff := cmp.Diff(DefaultConfig(), got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("ConfigFrom(config.Default()) mismatch (-want +got):\n%s", diff)
	}
}
