// Package vty runs commands on an interactive device shell reached through
// any transport that implements the Connector interface. Open a session on a
// connected transport with the prompt pattern of the device:
//
//	sess, err := vty.NewSession(conn, prompt)
//	// handle error!
//	defer sess.Close()
//
//	output, err := sess.Exec(ctx, "show version")
//
// Output is read until the last line matches the prompt (or another pattern
// given to ReadUntil), the context expires or the connection fails. Exec
// strips the echoed command and the trailing prompt from the output.
package vty
