package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if err := ctx.Err(); err != nil {
		status.Status = "down"
		status.Components["context"] = err.Error()
		return status
	}

	a := s.app
	a.mu.RLock()
	ruleCount := a.ruleSet.Len()
	unitCount := len(a.units)
	watching := a.activeWatcher != nil
	last := a.lastResult
	a.mu.RUnlock()

	if ruleCount == 0 {
		status.Status = "degraded"
		status.Components["rules"] = "none enabled"
	} else {
		status.Components["rules"] = fmt.Sprintf("ok (%d enabled)", ruleCount)
	}

	status.Components["units"] = fmt.Sprintf("%d loaded", unitCount)

	if last.RunID != "" {
		status.Components["last_run"] = fmt.Sprintf("%s (%d diagnostics)", last.RunID, len(last.Diagnostics))
	}

	if watching {
		status.Components["watcher"] = "running"
	} else {
		status.Components["watcher"] = "off"
	}
	return status
}
