// Package logsource streams structured records out of framed log files.
//
// A framed log file looks like a JSON array written one element per line:
//
//	[
//	{"node_id": "n1", "message": "started"},
//	{"node_id": "n2", "message": "started"}
//	]
//
// Each line is stripped of surrounding "[", "]" and "," before decoding, so
// both the array form above and plain JSON-lines files are accepted. Lines
// that are nothing but framing are skipped. Any other line must decode as a
// JSON object; otherwise iteration stops with a *domain.DecodeError.
//
// A Source is single-pass. Ranging over Entries a second time yields nothing;
// use Reopen to read the file again.
package logsource
