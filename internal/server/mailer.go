package server

import (
	log "github.com/sirupsen/logrus"
)

// Mailer delivers the password-recovery email. Delivery itself belongs to an
// external service; the default implementation only records the handoff.
type Mailer interface {
	SendPasswordRecovery(email, tempPassword string) error
}

type logMailer struct{}

func (logMailer) SendPasswordRecovery(email, _ string) error {
	log.WithFields(log.Fields{
		"category": "USERS",
		"action":   "RECUPERACAO DE SENHA",
		"email":    email,
	}).Info("recovery email handed off for delivery")
	return nil
}
