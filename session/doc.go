// Package session captures and replays interpreter byte streams as test
// fixtures. A Frame pairs a recorded input stream with the response bytes
// an Interpreter produced for it, guarded by a CRC16 checksum so a
// corrupted or hand-edited fixture is caught before it silently passes.
package session
