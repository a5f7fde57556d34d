// Package pkg provides the core libraries for opinionmap survey visualization.
//
// # Overview
//
// Opinionmap turns a survey of statements and votes into a two-dimensional
// opinion map: participants are projected onto two axes, grouped into
// clusters, and drawn as a labeled scatter plot with buffered cluster
// boundaries. The pkg directory is organized into five main areas:
//
//  1. [ballot] - Survey decoding and vote matrix construction
//  2. [analyze] - Projection and clustering (the analyzer boundary)
//  3. [geometry] - Convex hulls and buffered cluster boundaries
//  4. [plot] - Figure layout, palette, and the PNG/SVG sinks
//  5. [pipeline] - Orchestration (decode → analyze → plot → write)
//
// # Architecture
//
// The typical data flow through opinionmap:
//
//	Survey document (YAML/TOML)
//	         ↓
//	    [ballot] package (vote matrix + participant order)
//	         ↓
//	    [analyze] package (2-D points + cluster labels)
//	         ↓
//	    [plot] package (figure layout + rendering)
//	         ↓
//	    PNG/SVG artifact next to the input
//
// Supporting packages: [errors] carries machine-readable error codes across
// the whole tree, and [io] performs atomic artifact writes.
package pkg
