package metrics

import "github.com/prometheus/client_golang/prometheus"

// SessionMetrics tracks till session lifecycle events.
type SessionMetrics struct {
	logins        *prometheus.CounterVec
	forcedLogouts prometheus.Counter
	idleLocks     prometheus.Counter
	active        prometheus.Gauge
}

// NewSessionMetrics registers session counters and gauges on the registerer.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	if reg == nil {
		return &SessionMetrics{}
	}
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_logins_total",
		Help: "Login attempts partitioned by outcome.",
	}, []string{"outcome"})
	forcedLogouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_forced_logouts_total",
		Help: "Sessions terminated after exhausting PIN attempts.",
	})
	idleLocks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_idle_locks_total",
		Help: "Sessions locked by the inactivity timer.",
	})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_active",
		Help: "Live till sessions currently registered.",
	})
	reg.MustRegister(logins, forcedLogouts, idleLocks, active)
	return &SessionMetrics{
		logins:        logins,
		forcedLogouts: forcedLogouts,
		idleLocks:     idleLocks,
		active:        active,
	}
}

// IncLogin records a login attempt outcome ("success" or "failure").
func (s *SessionMetrics) IncLogin(outcome string) {
	if s == nil || s.logins == nil {
		return
	}
	s.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncForcedLogout records a PIN-exhaustion logout.
func (s *SessionMetrics) IncForcedLogout() {
	if s == nil || s.forcedLogouts == nil {
		return
	}
	s.forcedLogouts.Inc()
}

// IncIdleLock records an inactivity lock.
func (s *SessionMetrics) IncIdleLock() {
	if s == nil || s.idleLocks == nil {
		return
	}
	s.idleLocks.Inc()
}

// SetActiveSessions reports the current live session count.
func (s *SessionMetrics) SetActiveSessions(n int) {
	if s == nil || s.active == nil {
		return
	}
	s.active.Set(float64(n))
}
