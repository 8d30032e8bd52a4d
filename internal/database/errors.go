// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package database

import "errors"

// ErrNotFound marks lookups and updates that matched no row.
var ErrNotFound = errors.New("not found")
