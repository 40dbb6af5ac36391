// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrLockTimeout is returned when another install holds the project lock.
var ErrLockTimeout = errors.New("another reportctl install is running for this project")

var lockTimeout = 5 * time.Second

// SetLockTimeoutForTest shortens the lock wait and returns a func that
// restores it.
func SetLockTimeoutForTest(d time.Duration) func() {
	old := lockTimeout
	lockTimeout = d
	return func() { lockTimeout = old }
}

// ProjectLock serializes install runs for one project directory. The lock
// file lives in the system temp directory so that taking it never writes
// into the project.
type ProjectLock struct {
	path     string
	lockFile *os.File
}

// NewProjectLock returns the lock for projectDir.
func NewProjectLock(projectDir string) *ProjectLock {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		abs = projectDir
	}
	sum := sha256.Sum256([]byte(abs))
	name := "reportctl-" + hex.EncodeToString(sum[:8]) + ".lock"
	return &ProjectLock{path: filepath.Join(os.TempDir(), name)}
}

// Path returns the lock file location.
func (l *ProjectLock) Path() string {
	return l.path
}

// Lock acquires an exclusive lock, waiting up to lockTimeout.
func (l *ProjectLock) Lock() error {
	lockFile, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(lockTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			l.lockFile = lockFile
			return nil
		}
		if time.Now().After(deadline) {
			lockFile.Close()
			return ErrLockTimeout
		}
		<-ticker.C
	}
}

// Unlock releases the lock.
func (l *ProjectLock) Unlock() error {
	if l.lockFile == nil {
		return nil
	}
	defer func() { l.lockFile = nil }()

	if err := syscall.Flock(int(l.lockFile.Fd()), syscall.LOCK_UN); err != nil {
		l.lockFile.Close()
		return fmt.Errorf("failed to unlock: %w", err)
	}
	return l.lockFile.Close()
}

// WithLock runs fn while holding the lock.
func (l *ProjectLock) WithLock(fn func() error) error {
	if err := l.Lock(); err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}
