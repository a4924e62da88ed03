package services

import (
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/wordtrail-app/wordtrail_api/shared"
)

// SweepService regresses decayed words back into review on an hourly
// schedule. The sweep is one bulk update; a failed run is logged and the next
// tick simply picks the same rows up again.
type SweepService struct {
	appContext.DefaultService

	store      ProgressStore
	monitoring *MonitoringService
	scheduler  *gocron.Scheduler
	clock      shared.Clock
}

const SWEEP_SVC = "sweep_svc"

func (svc SweepService) Id() string {
	return SWEEP_SVC
}

func (svc *SweepService) Configure(ctx *appContext.Context) error {
	svc.clock = shared.SystemClock{}
	svc.scheduler = gocron.NewScheduler(time.UTC)
	return svc.DefaultService.Configure(ctx)
}

func (svc *SweepService) Start() error {
	svc.store = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.monitoring = svc.Service(MONITORING_SVC).(*MonitoringService)

	_, err := svc.scheduler.Every(1).Hour().StartImmediately().Do(func() {
		if _, err := svc.RunNow(); err != nil {
			log.WithError(err).Error("Review sweep failed")
		}
	})
	if err != nil {
		return err
	}

	svc.scheduler.StartAsync()
	return nil
}

func (svc *SweepService) Shutdown() {
	if svc.scheduler != nil {
		svc.scheduler.Stop()
	}
}

// RunNow executes one sweep pass and reports how many words it regressed.
// Also called directly by the admin endpoint.
func (svc *SweepService) RunNow() (int64, error) {
	swept, err := svc.store.MarkOverdueForReview(svc.clock.Now())
	svc.monitoring.ObserveSweep(swept, err)
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		log.WithField("words", swept).Info("Swept overdue words into review")
	}
	return swept, nil
}
