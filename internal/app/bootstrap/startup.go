// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	queuestore "github.com/dalemusser/guildhub/internal/app/store/queue"
	"github.com/dalemusser/guildhub/internal/app/system/tasks"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// background holds the job scheduler between Startup and Shutdown.
var background struct {
	sync.Mutex
	sched *tasks.Scheduler
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: store
// timeouts are applied and the queue backlog monitor is started.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Read:  appCfg.TimeoutRead,
		Write: appCfg.TimeoutWrite,
	})

	jobs := backgroundJobs(appCfg, deps, logger)
	if len(jobs) == 0 {
		logger.Info("no background jobs enabled")
		return nil
	}

	s := tasks.NewScheduler(logger, jobs...)
	s.Start()

	background.Lock()
	background.sched = s
	background.Unlock()
	return nil
}

func backgroundJobs(appCfg AppConfig, deps DBDeps, logger *zap.Logger) []tasks.Job {
	var jobs []tasks.Job
	if appCfg.BacklogCheckInterval > 0 {
		producer := queuestore.NewProducer(deps.GuildHubMongoDatabase, logger)
		job := tasks.QueueBacklogJob(producer, logger, appCfg.BacklogCheckInterval, appCfg.StaleGrace)
		job.Timeout = timeouts.Scan()
		jobs = append(jobs, job)
	}
	return jobs
}

// stopBackground stops the scheduler started by Startup, if any.
func stopBackground(logger *zap.Logger) {
	background.Lock()
	s := background.sched
	background.sched = nil
	background.Unlock()

	if s != nil {
		s.Stop()
		logger.Info("background jobs stopped")
	}
}
