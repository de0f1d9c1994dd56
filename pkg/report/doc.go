// Package report holds the result of a merge run and renders it.
//
// A Report is built through a Recorder, which is safe for concurrent use by
// merge workers. Once the run ends the report is a plain value that can be
// written as styled text or serialized as json, yaml, toml or xml.
package report
