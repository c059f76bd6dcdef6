// Package appsource provides the remote metadata document for an app.
//
// A Source returns the raw text that contains the app's record. The steamcmd
// client is one source; File reads a document the user saved by hand. Chain
// tries sources in order and falls through when a source fails or when its
// text does not pass the chain's Check.
package appsource
