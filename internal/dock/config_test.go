// internal/dock/config_test.go
package dock

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xkilldash9x/floatdock/internal/config"
)

func TestFromSettings_MatchesDefaults(t *testing.T) {
	got := FromSettings(config.NewDefaultConfig().Dock())
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("configured defaults drifted from the engine defaults (-engine +config):\n%s", diff)
	}
}
