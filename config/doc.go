// Package config loads mention editor settings from TOML.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default.
//
//	[tokenizer]
//	threshold = 3
//	explicit_chars = "@#"
//
//	[editor]
//	avoid_prefix_on_tap = true
//
//	[suggestions]
//	builder = "tag-order"
//	tag_order = ["person", "city"]
//	lookup_timeout = "500ms"
package config
