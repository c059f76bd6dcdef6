// Package steamcmd runs the external steamcmd tool to fetch an app's remote
// metadata document.
//
// The client shells out with an anonymous login, captures stdout and stderr
// line by line, strips filler bytes from the captured text, and archives the
// raw response under the log directory as steam_response_<appid>.log so a
// failed parse can be inspected afterwards. Command execution goes through the
// Executor interface so tests can replay canned output.
package steamcmd
