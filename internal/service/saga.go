package service

import (
	"github.com/sirupsen/logrus"

	"tripmate/internal/logger"
)

// SagaState tracks how far a mutate -> count -> notify sequence got.
type SagaState string

const (
	StateStarted          SagaState = "Started"
	StatePrimaryCommitted SagaState = "PrimaryCommitted"
	StateCounterApplied   SagaState = "CounterApplied"
	StateNotificationSent SagaState = "NotificationSent"
	StateDone             SagaState = "Done"
)

const PartialFailureWarning = "PartialFailureWarning"

type saga struct {
	op    string
	state SagaState
	log   *logrus.Entry
}

func startSaga(op string, fields logrus.Fields) *saga {
	s := &saga{
		op:    op,
		state: StateStarted,
		log:   logger.Log.WithField("op", op).WithFields(fields),
	}
	s.log.WithField("state", s.state).Debug("saga started")
	return s
}

func (s *saga) advance(state SagaState) {
	s.state = state
	s.log.WithField("state", state).Debug("saga advanced")
}

// committed marks the primary write and its counter update, which share one transaction.
func (s *saga) committed() {
	s.advance(StatePrimaryCommitted)
	s.advance(StateCounterApplied)
}

// partialFailure records a tail step that failed after the primary write committed.
func (s *saga) partialFailure(cause error) {
	s.log.WithFields(logrus.Fields{
		"warning": PartialFailureWarning,
		"state":   s.state,
		"cause":   cause.Error(),
	}).Warn("operation committed but a follow-up step failed")
}

func (s *saga) done() {
	s.advance(StateDone)
}
