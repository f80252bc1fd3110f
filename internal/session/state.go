// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package session

//go:generate ${TOOLS_BIN}/stringer -type=State -trimprefix=State
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)
