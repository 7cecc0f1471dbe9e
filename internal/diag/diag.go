// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package diag provides the structured logging used to report recoverable
// but suspicious conditions from the sparse set and storage packages — for
// example a Remove on an absent entity, or a Reserve that would shrink
// capacity. It never substitutes for the precondition contract: genuine
// precondition violations panic via PreconditionError, logging happens only
// on the paths that are allowed to proceed.
package diag

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	logger = logrus.New()
)

func init() {
	logger.SetLevel(logrus.WarnLevel)
}

// SetLogger replaces the package-level logger, letting an embedding
// application route entt's diagnostics into its own logging pipeline.
func SetLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Warn logs a suspicious-but-legal condition with structured fields, e.g.
//
//	diag.Warn("sparse.Set.Reserve", logrus.Fields{"requested": n})
func Warn(op string, fields logrus.Fields) {
	current().WithFields(fields).WithField("op", op).Warn("entt: condition allowed to proceed")
}

// Debug logs a low-frequency bookkeeping event useful while developing a
// consumer, such as a Remove of an entity that is not contained.
func Debug(op string, fields logrus.Fields) {
	current().WithFields(fields).WithField("op", op).Debug("entt: bookkeeping")
}
