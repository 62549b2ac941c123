package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"tripmate/internal/apperr"
	"tripmate/internal/logger"
	"tripmate/internal/repository"
)

// ReconcileReport counts the rows whose cached counter disagreed with its source table.
type ReconcileReport struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
}

func (r ReconcileReport) Total() int64 {
	return r.Followers + r.Following + r.Likes + r.Comments
}

type CounterService interface {
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

type counterService struct {
	counterRepo repository.CounterRepository
}

func NewCounterService(counterRepo repository.CounterRepository) CounterService {
	return &counterService{counterRepo: counterRepo}
}

// Reconcile recomputes every denormalized counter from the edge, like and comment tables.
func (c *counterService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	const op = "counter.reconcile"

	var (
		report ReconcileReport
		err    error
	)

	steps := []struct {
		dst *int64
		run func(context.Context) (int64, error)
	}{
		{&report.Followers, c.counterRepo.ReconcileFollowers},
		{&report.Following, c.counterRepo.ReconcileFollowing},
		{&report.Likes, c.counterRepo.ReconcileLikes},
		{&report.Comments, c.counterRepo.ReconcileComments},
	}

	for _, step := range steps {
		if *step.dst, err = step.run(ctx); err != nil {
			return nil, apperr.Internal(op, err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"followers": report.Followers,
		"following": report.Following,
		"likes":     report.Likes,
		"comments":  report.Comments,
	}).Info("counters reconciled")

	return &report, nil
}
