// Package main hosts the movie-analytics CLI.
//
// The Cobra command tree resolves configuration once, then hands off to the
// internal packages. run drives one catalog batch through the pipeline and
// report renders monthly statistics. show, history and logs inspect a project
// cache, and config scaffolds the TOML file.
package main
