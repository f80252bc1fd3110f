// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package portal performs the two calls understood by the captive portal: a form
// encoded login POST and a logout GET. Every call is classified into a Result; a
// failed call is a value, never a panic or an unhandled error.
package portal
