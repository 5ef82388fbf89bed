// Copyright 2025 Poiesic Systems
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


package xparser

// DefaultBucket is the bucket used when the caller does not name one.
// TODO: revisit once per-user buckets land; the default changes then.
const DefaultBucket = "aidoc"

// DefaultParseOptions returns the option set applied to the v1 parse
// endpoint. Each call returns a fresh map safe to mutate.
//
// Recognized keys:
//
//	response_format          - output shape; fixed to "layout_json" for v1
//	include_bbox             - include bounding box coordinates
//	id_marker                - add unique ID markers to elements
//	group_markers            - add group markers
//	use_xparser_description  - enable AI-generated descriptions
func DefaultParseOptions() map[string]any {
	return map[string]any{
		"response_format":         "layout_json",
		"include_bbox":            true,
		"id_marker":               true,
		"group_markers":           true,
		"use_xparser_description": true,
	}
}

// DefaultChunkOptions returns the option set applied to the v2 chunk
// endpoint. Each call returns a fresh map safe to mutate.
//
// Recognized keys:
//
//	use_ai_description  - enable AI-generated descriptions
//	table_format        - table rendering; "markdown" by default
func DefaultChunkOptions() map[string]any {
	return map[string]any{
		"use_ai_description": true,
		"table_format":       "markdown",
	}
}

// MinimalOptions returns an option overlay that disables AI description
// and layout decoration for the fastest possible parse.
func MinimalOptions() map[string]any {
	return map[string]any{
		"use_xparser_description": false,
		"include_bbox":            false,
		"group_markers":           false,
	}
}

// FullOptions returns an option overlay with every layout feature enabled.
func FullOptions() map[string]any {
	return map[string]any{
		"use_xparser_description": true,
		"include_bbox":            true,
		"id_marker":               true,
		"group_markers":           true,
	}
}

// mergeOptions overlays the caller-supplied options onto the endpoint
// defaults. The merge is shallow: only top-level keys are overridden, and
// keys outside the default set pass through unchanged.
func mergeOptions(defaults, overrides map[string]any) map[string]any {
	for key, value := range overrides {
		defaults[key] = value
	}
	return defaults
}
