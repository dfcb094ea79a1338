// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for hooklog.
//
// Configuration is optional: every field has a working default, and a
// missing file is not an error. The file is located via the
// HOOKLOG_CONFIG environment variable (via [Load]), an explicit path
// (via [LoadFile]), or <project>/.claude/hooklog.yaml. There is no
// other discovery.
//
// Two environment variables, HOOKLOG_LOG_DIR and HOOKLOG_LOG_LEVEL,
// override the file after loading because they are the settings an
// operator flips per-invocation. Variable expansion is performed on
// path fields: ${HOME}, ${CLAUDE_PROJECT_DIR}, and ${VAR:-default}
// patterns.
//
// The record path must never fail on configuration problems, so it
// loads through [LoadBestEffort], which collapses any load or
// validation error to the defaults and hands the error back for
// logging only.
//
// This package depends on no other hooklog packages.
package config
