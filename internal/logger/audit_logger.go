// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for the bet ledger.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetRecorded logs a bet entering the ledger.
func (al *AuditLogger) LogBetRecorded(betID, raceID, raceRef, betType string, selection []int, stake string, placedAt time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":    betID,
		"race_id":   raceID,
		"race":      raceRef,
		"bet_type":  betType,
		"selection": selection,
		"stake":     stake,
		"timestamp": placedAt.Unix(),
	}).Info("Bet recorded")
}

// LogBetSettled logs a bet settlement.
func (al *AuditLogger) LogBetSettled(betID, outcome, payout string, settledAt time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":    betID,
		"outcome":   outcome,
		"payout":    payout,
		"timestamp": settledAt.Unix(),
	}).Info("Bet settled")
}

// LogSettlementRejected logs an attempt to settle a bet twice.
func (al *AuditLogger) LogSettlementRejected(betID, reason string) {
	al.WithFields(logrus.Fields{
		"bet_id": betID,
		"reason": reason,
	}).Warn("Bet settlement rejected")
}

// LogBetPurged logs an explicit ledger deletion.
func (al *AuditLogger) LogBetPurged(betID string) {
	al.WithFields(logrus.Fields{
		"bet_id": betID,
	}).Warn("Bet purged from ledger")
}

// LogProfileSaved logs a new weighting profile version.
func (al *AuditLogger) LogProfileSaved(name string, version int, source string, weights map[string]float64) {
	al.WithFields(logrus.Fields{
		"profile_name":    name,
		"profile_version": version,
		"profile_source":  source,
		"weights":         weights,
	}).Info("Weighting profile saved")
}
