// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "fmt"

// WarningKind classifies a non-fatal issue recorded during decoding or
// rendering, grounded on the teacher's Anomalies []string vocabulary
// (anomaly.go) but typed so callers can switch on a Warning's Kind
// field instead of string-matching.
type WarningKind string

// The closed set of warning kinds this module can emit.
const (
	WarnMalformedMetadata    WarningKind = "malformed_metadata"
	WarnOrphanNode           WarningKind = "orphan_node"
	WarnUnresolvedSymbol     WarningKind = "unresolved_symbol"
	WarnUnrenderableFeature  WarningKind = "unrenderable_feature"
	WarnGeometryFallback     WarningKind = "geometry_fallback"
	WarnNoBounds             WarningKind = "no_bounds"
	WarnMultipleShadows      WarningKind = "multiple_shadows"
	WarnBaselineOutOfRange   WarningKind = "baseline_out_of_range"
	WarnImageDecodeFailed    WarningKind = "image_decode_failed"
)

// Warning is a single recorded non-fatal issue.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	if w.Message == "" {
		return string(w.Kind)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

func warnf(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
