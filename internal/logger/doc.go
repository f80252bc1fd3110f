// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger renders leveled, timestamped messages to the console and, optionally,
// to a per-run log file. It centralizes configuration and makes loggers available
// through context helpers.
package logger
