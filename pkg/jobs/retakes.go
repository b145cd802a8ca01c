package jobs

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/config"
)

// NotifyRetakesName is the name of the retake reminder job.
const NotifyRetakesName = "notify-retakes"

func init() {
	Register(NotifyRetakesName, notifyRetakes{})
}

type notifyRetakes struct{}

var _ Runner = notifyRetakes{}

// Spec implements Runner.
func (notifyRetakes) Spec(ctx context.Context) string {
	cfg := config.FromContext(ctx)
	if cfg == nil || cfg.Jobs.NotifyRetakes == "" {
		return config.DefaultConfig().Jobs.NotifyRetakes
	}
	return cfg.Jobs.NotifyRetakes
}

// Func implements Runner.
func (notifyRetakes) Func(ctx context.Context) func() {
	be := backend.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("jobs.notify-retakes")
	return func() {
		if be == nil {
			logger.Error("backend is not available")
			return
		}

		n, err := be.NotifyRetakes(ctx)
		if err != nil {
			logger.Error("error sending retake reminders", "err", err)
			return
		}
		logger.Debug("retake reminders sent", "count", n)
	}
}
