package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/trendradar/internal/config"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/notify"
)

func TestEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config.AlertsConfig
		want bool
	}{
		{"nil config", nil, false},
		{"disabled", &config.AlertsConfig{SMTPHost: "smtp.example", To: []string{"a@example.com"}}, false},
		{"no host", &config.AlertsConfig{Enabled: true, To: []string{"a@example.com"}}, false},
		{"no recipients", &config.AlertsConfig{Enabled: true, SMTPHost: "smtp.example"}, false},
		{
			"fully configured",
			&config.AlertsConfig{Enabled: true, SMTPHost: "smtp.example", To: []string{"a@example.com"}},
			true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := notify.New(c.cfg, logger.NewNoOp())
			assert.Equal(t, c.want, m.Enabled())
		})
	}
}

func TestNotify_DisabledIsNoOp(t *testing.T) {
	m := notify.New(nil, logger.NewNoOp())

	run := &domain.ScanRun{ID: "abcdef1234567890", Trigger: domain.RunTriggerSchedule}
	assert.NoError(t, m.NotifyRunCompleted(run, 3))
	assert.NoError(t, m.NotifyRunFailed(run))
}
