package metrics

import (
	"sync"

	"github.com/penglongli/gin-metrics/ginmetrics"
	"go.uber.org/zap"
)

const AuthEventsMetric = "auth_events_total"

// Auth event labels.
const (
	EventRegister      = "register"
	EventLogin         = "login"
	EventLoginFailed   = "login_failed"
	EventLogout        = "logout"
	EventTokenRejected = "token_rejected"
)

var registerOnce sync.Once

func GetMonitor(path string) *ginmetrics.Monitor {
	m := ginmetrics.GetMonitor()
	// +optional set path
	m.SetMetricPath(path)
	// +optional set slow time
	m.SetSlowTime(1)

	// +optional set request duration, default {0.1, 0.3, 1.2, 5, 10}
	// used to p95, p99
	m.SetDuration([]float64{0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5})

	registerOnce.Do(func() {
		authEvents := &ginmetrics.Metric{
			Type:        ginmetrics.Counter,
			Name:        AuthEventsMetric,
			Description: "authentication events by outcome",
			Labels:      []string{"event"},
		}
		if err := m.AddMetric(authEvents); err != nil {
			zap.L().Warn("Failed to register metric", zap.String("metric", AuthEventsMetric), zap.Error(err))
		}
	})

	return m
}

// IncAuthEvent counts one auth event. It is a no-op until GetMonitor has run.
func IncAuthEvent(event string) {
	_ = ginmetrics.GetMonitor().GetMetric(AuthEventsMetric).Inc([]string{event})
}
