// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package session keeps a captive portal session alive by logging out and back in
// on a fixed cycle, retrying every call until it succeeds.
//
// A cycle is made of two phases run strictly in sequence: logout, retried every
// logout retry interval until the portal accepts it, then login, retried every login
// retry interval. After a successful login the cycler waits the cycle interval and
// starts over. The loop only ends when Stop is called or the context passed to Run
// is cancelled.
package session
